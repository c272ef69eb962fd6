package tickets

import (
	"github.com/JaimeStill/triage/internal/workflow"
	"github.com/JaimeStill/triage/pkg/openapi"
	"github.com/JaimeStill/triage/pkg/pagination"
)

// Schemas returns the OpenAPI component schemas for the tickets domain.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ProcessCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"subject":     {Type: "string", Example: "Can't log in"},
				"description": {Type: "string", Example: "2FA code not arriving"},
			},
		},
		"ProcessResponse": {
			Type:     "object",
			Required: []string{"response", "status", "attempts_used"},
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid", Description: "Absent when the outcome could not be stored"},
				"response":      {Type: "string"},
				"status":        statusSchema(),
				"attempts_used": {Type: "integer"},
			},
		},
		"Ticket": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"subject":           {Type: "string"},
				"description":       {Type: "string"},
				"category":          categorySchema(),
				"status":            statusSchema(),
				"response":          {Type: "string"},
				"draft":             {Type: "string"},
				"review_result":     {Type: "string"},
				"retrieved_context": openapi.ArrayOf(&openapi.Schema{Type: "string"}),
				"retry_count":       {Type: "integer"},
				"attempts_used":     {Type: "integer"},
				"escalation_reason": {Type: "string"},
				"duration_ms":       {Type: "integer"},
				"created_at":        {Type: "string", Format: "date-time"},
			},
		},
		"TicketPage": pagination.Schema("Ticket"),
	}
}

func categorySchema() *openapi.Schema {
	return openapi.StringEnum(append([]workflow.Category{workflow.CategoryUncategorized}, workflow.Categories()...)...)
}

func statusSchema() *openapi.Schema {
	return openapi.StringEnum(workflow.StatusAnswered, workflow.StatusNeedsMoreInfo)
}

var idParam = openapi.PathParam("id", "Ticket ID")

var listOp = &openapi.Operation{
	Summary: "List processed tickets",
	Parameters: append(pagination.Params("Search subject and description"),
		openapi.QueryParamSchema("category", "Filter by category", categorySchema(), false),
		openapi.QueryParamSchema("status", "Filter by status", statusSchema(), false),
		openapi.QueryParam("since", "string", "Created at or after (RFC 3339)", false),
		openapi.QueryParam("until", "string", "Created before (RFC 3339)", false),
	),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Ticket page", "TicketPage"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Find ticket",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Ticket", "Ticket"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var processOp = &openapi.Operation{
	Summary:     "Process ticket",
	Description: "Classifies the ticket, retrieves knowledge, drafts and reviews a reply, and stores the outcome. Escalated tickets return status needs_more_info.",
	RequestBody: openapi.RequestBodyJSON("ProcessCommand", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Pipeline outcome", "ProcessResponse"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		502: openapi.ResponseRef("BadGateway"),
		504: {Description: "Pipeline deadline exceeded"},
	},
}

var searchOp = &openapi.Operation{
	Summary:     "Search processed tickets",
	RequestBody: openapi.RequestBodyJSON("PageRequest", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Ticket page", "TicketPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete ticket",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		204: {Description: "Deleted"},
		404: openapi.ResponseRef("NotFound"),
	},
}
