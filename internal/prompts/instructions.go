package prompts

const classifyInstructions = `ANALYZE THIS SUPPORT TICKET AND CATEGORIZE IT.`

const draftInstructions = `You are a helpful support agent. Write a short, practical reply.`

const reviewInstructions = `You are a QA reviewer.

Approve if it is relevant, helpful, and safe.
Reject if it is wrong, confusing, unsafe, or not addressing the issue.`

var instructions = map[Stage]string{
	StageClassify: classifyInstructions,
	StageDraft:    draftInstructions,
	StageReview:   reviewInstructions,
}

// Instructions returns the built-in instructions for a stage.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
