package prompts

import (
	"github.com/JaimeStill/triage/pkg/openapi"
	"github.com/JaimeStill/triage/pkg/pagination"
)

// Schemas returns the OpenAPI component schemas for the prompts domain.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        openapi.StringEnum(stages...),
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "stage", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"stage":        openapi.StringEnum(stages...),
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
			},
		},
		"PromptPage": pagination.Schema("Prompt"),
		"StageContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":   openapi.StringEnum(stages...),
				"content": {Type: "string"},
			},
		},
	}
}

var (
	idParam    = openapi.PathParam("id", "Prompt ID")
	stageParam = &openapi.Parameter{
		Name:     "stage",
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string"},
	}
)

var listOp = &openapi.Operation{
	Summary: "List prompt overrides",
	Parameters: append(pagination.Params("Search name, description, and instructions"),
		openapi.QueryParamSchema("stage", "Filter by stage", openapi.StringEnum(stages...), false),
		openapi.QueryParam("name", "string", "Filter by name", false),
		openapi.QueryParam("active", "boolean", "Filter by active flag", false),
	),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prompt page", "PromptPage"),
	},
}

var stagesOp = &openapi.Operation{
	Summary: "List overridable stages",
	Responses: map[int]*openapi.Response{
		200: {Description: "Stage names"},
	},
}

var findOp = &openapi.Operation{
	Summary:    "Find prompt",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prompt", "Prompt"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var instructionsOp = &openapi.Operation{
	Summary:    "Effective stage instructions",
	Parameters: []*openapi.Parameter{stageParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Stage instructions", "StageContent"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var specOp = &openapi.Operation{
	Summary:    "Fixed stage output rules",
	Parameters: []*openapi.Parameter{stageParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Stage output rules", "StageContent"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var createOp = &openapi.Operation{
	Summary:     "Create prompt override",
	RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Created prompt", "Prompt"),
		400: openapi.ResponseRef("BadRequest"),
		409: {Description: "Prompt name already exists"},
		413: openapi.ResponseRef("PayloadTooLarge"),
	},
}

var updateOp = &openapi.Operation{
	Summary:     "Update prompt override",
	Parameters:  []*openapi.Parameter{idParam},
	RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Updated prompt", "Prompt"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		409: {Description: "Prompt name already exists"},
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete prompt override",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		204: {Description: "Deleted"},
		404: openapi.ResponseRef("NotFound"),
	},
}

var searchOp = &openapi.Operation{
	Summary:     "Search prompt overrides",
	RequestBody: openapi.RequestBodyJSON("PageRequest", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prompt page", "PromptPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var activateOp = &openapi.Operation{
	Summary:    "Activate prompt override",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Activated prompt", "Prompt"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var deactivateOp = &openapi.Operation{
	Summary:    "Deactivate prompt override",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Deactivated prompt", "Prompt"),
		404: openapi.ResponseRef("NotFound"),
	},
}
