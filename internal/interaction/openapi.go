package interaction

import "github.com/JaimeStill/veritas/pkg/openapi"

var probabilityMin, probabilityMax = 0.0, 1.0

// Responses returns the component responses the interaction routes reference
// beyond the shared error responses.
func Responses() map[string]*openapi.Response {
	return map[string]*openapi.Response{
		"ServiceUnavailable": {
			Description: "History is still loading",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("Error")},
			},
		},
	}
}

// Schemas returns the component schemas referenced by the interaction routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"TextRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string", Description: "News text to analyze", Example: "Scientists discover new planet similar to Earth"},
			},
		},
		"AnalysisResult": {
			Type:     "object",
			Required: []string{"label", "probability", "input_text"},
			Properties: map[string]*openapi.Schema{
				"label":       {Type: "string", Enum: []any{"FAKE", "REAL"}},
				"probability": {Type: "number", Minimum: &probabilityMin, Maximum: &probabilityMax},
				"input_text":  {Type: "string", Description: "Text as echoed by the classification service"},
			},
		},
		"HistoryEntry": {
			Type:     "object",
			Required: []string{"id", "label", "probability", "text", "time"},
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string"},
				"label":       {Type: "string", Enum: []any{"FAKE", "REAL"}},
				"probability": {Type: "number", Minimum: &probabilityMin, Maximum: &probabilityMax},
				"text":        {Type: "string"},
				"time":        {Type: "string", Description: "Local time the analysis completed"},
			},
		},
		"HistoryLog": {
			Type:        "array",
			Description: "At most ten entries, newest first",
			Items:       openapi.SchemaRef("HistoryEntry"),
		},
		"State": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"input_text":  {Type: "string"},
				"is_loading":  {Type: "boolean"},
				"last_result": openapi.SchemaRef("AnalysisResult"),
				"last_error":  {Type: "string"},
				"history":     openapi.SchemaRef("HistoryLog"),
			},
		},
		"ExampleList": {
			Type: "array",
			Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"index": {Type: "integer"},
					"text":  {Type: "string"},
				},
			},
		},
		"ServiceStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"base_url": {Type: "string"},
				"healthy":  {Type: "boolean"},
				"error":    {Type: "string"},
			},
		},
	}
}

func stateResponse(description string) map[int]*openapi.Response {
	return map[int]*openapi.Response{200: openapi.ResponseJSON(description, "State")}
}

var ops = struct {
	state, input, submit, service *openapi.Operation
	examples, selectExample       *openapi.Operation
	history, clearHistory         *openapi.Operation
}{
	state: &openapi.Operation{
		Summary:   "Get interaction state",
		Tags:      []string{"Interaction"},
		Responses: stateResponse("Current state"),
	},
	input: &openapi.Operation{
		Summary:     "Set the input text",
		Tags:        []string{"Interaction"},
		RequestBody: openapi.RequestBodyJSON("TextRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated state", "State"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	submit: &openapi.Operation{
		Summary:     "Analyze text",
		Description: "Analyzes the posted text, or the current input when the body carries none. At most one analysis runs at a time.",
		Tags:        []string{"Interaction"},
		RequestBody: openapi.RequestBodyJSON("TextRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis completed", "State"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
			502: openapi.ResponseRef("BadGateway"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	service: &openapi.Operation{
		Summary: "Probe the classification service",
		Tags:    []string{"Interaction"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Service status", "ServiceStatus"),
		},
	},
	examples: &openapi.Operation{
		Summary: "List example headlines",
		Tags:    []string{"Examples"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Example catalog", "ExampleList"),
		},
	},
	selectExample: &openapi.Operation{
		Summary:    "Load an example into the input",
		Tags:       []string{"Examples"},
		Parameters: []*openapi.Parameter{openapi.PathParam("index", "integer", "Catalog index")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated state", "State"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	history: &openapi.Operation{
		Summary: "List analysis history",
		Tags:    []string{"History"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("History, newest first", "HistoryLog"),
		},
	},
	clearHistory: &openapi.Operation{
		Summary: "Clear analysis history",
		Tags:    []string{"History"},
		Responses: map[int]*openapi.Response{
			204: {Description: "History cleared"},
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
}
