package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"datatalk/models"
	"datatalk/service"
)

// Orchestrator runs the agentic loop for one request: it sends the
// conversation to the model, dispatches any requested tool call against the
// platform or search client, folds the result back in as a function turn,
// and repeats until the model answers in plain text. The loop is strictly
// sequential and unbounded in iterations; it ends when the model stops
// requesting tools, or on the first error.
type Orchestrator struct {
	aiService *AIService
	platform  *service.DataPlatformClient
	search    *service.SearchClient // nil when no search key is configured
	functions []FunctionSpec
}

// Result is the outcome of one orchestration run. Endpoints lists every
// platform URL touched, in call order.
type Result struct {
	Answer    string
	Reasoning string
	Endpoints []string
}

func NewOrchestrator(aiService *AIService, platform *service.DataPlatformClient, search *service.SearchClient) *Orchestrator {
	return &Orchestrator{
		aiService: aiService,
		platform:  platform,
		search:    search,
		functions: Registry(search != nil),
	}
}

// Run executes the loop for one user message. The conversation is
// append-only: turns are added, never mutated or removed.
func (o *Orchestrator) Run(ctx context.Context, userMessage string) (*Result, error) {
	o.platform.ResetEndpoints()

	messages := []models.ChatMessage{
		{Role: "system", Content: BuildSystemPrompt()},
		{Role: "user", Content: userMessage},
	}

	for {
		turn, err := o.aiService.Complete(ctx, messages, o.functions)
		if err != nil {
			return nil, err
		}

		if turn.FunctionCall == nil {
			answer, reasoning := splitReasoning(turn.Content)
			return &Result{
				Answer:    answer,
				Reasoning: reasoning,
				Endpoints: o.platform.Endpoints(),
			}, nil
		}

		log.Printf("[ORCHESTRATOR] Tool call: %s(%s)", turn.FunctionCall.Name, turn.FunctionCall.Arguments)

		resultJSON, err := o.dispatch(ctx, turn.FunctionCall)
		if err != nil {
			// A forbidden response keeps its type across the dispatch
			// boundary so the handler can name the denied resource.
			var forbidden *service.AccessForbiddenError
			if errors.As(err, &forbidden) {
				return nil, forbidden
			}
			return nil, fmt.Errorf("tool %s failed: %w", turn.FunctionCall.Name, err)
		}

		messages = append(messages,
			models.ChatMessage{
				Role:         "assistant",
				Content:      turn.Content,
				FunctionCall: turn.FunctionCall,
			},
			models.ChatMessage{
				Role:    "function",
				Name:    turn.FunctionCall.Name,
				Content: resultJSON,
			},
		)
	}
}

type listTablesArgs struct {
	Service string `json:"service"`
}

type tableSchemaArgs struct {
	Service string `json:"service"`
	Table   string `json:"table"`
}

type queryTableArgs struct {
	Service       string `json:"service"`
	Table         string `json:"table"`
	Filter        string `json:"filter"`
	Related       string `json:"related"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	Order         string `json:"order"`
	Fields        string `json:"fields"`
	IncludeCount  bool   `json:"include_count"`
	IncludeSchema bool   `json:"include_schema"`
}

type searchFieldArgs struct {
	Service string `json:"service"`
	Table   string `json:"table"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Exact   bool   `json:"exact"`
	Related string `json:"related"`
}

type searchNameArgs struct {
	Service        string `json:"service"`
	Table          string `json:"table"`
	Name           string `json:"name"`
	FirstNameField string `json:"first_name_field"`
	LastNameField  string `json:"last_name_field"`
	Related        string `json:"related"`
}

type searchTableArgs struct {
	Service string `json:"service"`
	Table   string `json:"table"`
	Phrase  string `json:"phrase"`
	Related string `json:"related"`
}

type webSearchArgs struct {
	Query string `json:"query"`
}

// dispatch routes a model-requested call to the matching client method and
// serializes the result for the function turn. One call at a time; never
// retried here.
func (o *Orchestrator) dispatch(ctx context.Context, call *models.FunctionCall) (string, error) {
	switch call.Name {
	case "list_services":
		services, err := o.platform.ListServices(ctx)
		if err != nil {
			return "", err
		}
		return marshalResult(services)

	case "list_tables":
		var args listTablesArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		tables, err := o.platform.ListTables(ctx, args.Service)
		if err != nil {
			return "", err
		}
		return marshalResult(tables)

	case "get_table_schema":
		var args tableSchemaArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		schema, err := o.platform.GetTableSchema(ctx, args.Service, args.Table)
		if err != nil {
			return "", err
		}
		return marshalResult(schema)

	case "query_table":
		var args queryTableArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		result, err := o.platform.QueryTable(ctx, args.Service, args.Table, service.QueryParams{
			Filter:        args.Filter,
			Related:       args.Related,
			Limit:         args.Limit,
			Offset:        args.Offset,
			Order:         args.Order,
			Fields:        args.Fields,
			IncludeCount:  args.IncludeCount,
			IncludeSchema: args.IncludeSchema,
		})
		if err != nil {
			return "", err
		}
		return marshalResult(result)

	case "search_table_by_field":
		var args searchFieldArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		result, err := o.platform.SearchTableByField(ctx, args.Service, args.Table, args.Field, args.Value, args.Exact, args.Related)
		if err != nil {
			return "", err
		}
		return marshalResult(result)

	case "search_by_name":
		var args searchNameArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		result, err := o.platform.SearchByName(ctx, args.Service, args.Table, args.Name, args.FirstNameField, args.LastNameField, args.Related)
		if err != nil {
			return "", err
		}
		return marshalResult(result)

	case "search_table":
		var args searchTableArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		result, err := o.platform.SearchTable(ctx, args.Service, args.Table, args.Phrase, args.Related)
		if err != nil {
			return "", err
		}
		return marshalResult(result)

	case "web_search":
		if o.search == nil {
			return "", &UnknownToolError{Name: call.Name}
		}
		var args webSearchArgs
		if err := parseArgs(call, &args); err != nil {
			return "", err
		}
		summary, err := o.search.Search(ctx, args.Query)
		if err != nil {
			return "", err
		}
		return marshalResult(map[string]string{"summary": summary})

	default:
		return "", &UnknownToolError{Name: call.Name}
	}
}

func parseArgs(call *models.FunctionCall, out interface{}) error {
	if call.Arguments == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(call.Arguments), out); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", call.Name, err)
	}
	return nil
}

func marshalResult(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}
