package prompts

const classifySpec = `AVAILABLE CATEGORIES:
billing: Payment issues, refunds, subscriptions, invoices
technical: App crashes, login problems, bugs, errors
security: 2FA, passwords, unauthorized access, account security
general: Account settings, support hours, general questions

RESPOND WITH ONLY ONE WORD: billing OR technical OR security OR general.`

const draftSpec = `Rules:
- Keep it 6-10 lines max
- Be friendly and direct
- Give clear steps
- Ask ONE clarifying question only if needed`

const reviewSpec = `Reply with ONLY: APPROVED or REJECTED.`

var specs = map[Stage]string{
	StageClassify: classifySpec,
	StageDraft:    draftSpec,
	StageReview:   reviewSpec,
}

// Spec returns the fixed output contract for a stage. Unlike instructions,
// specs cannot be overridden since stage parsers depend on them.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
