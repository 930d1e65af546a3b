package workflow

import (
	"fmt"
	"log/slog"

	"dualmode/app/client/llm"
	"dualmode/app/config"

	"github.com/samber/do"
)

// New provides the configured Workflow to the injector.
func New(di *do.Injector) (Workflow, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Workflow.Kind != config.WorkflowGraph {
		slog.Info("Using stub workflow", "alternate", cfg.Workflow.Alternate)
		return Stub{Alternate: cfg.Workflow.Alternate}, nil
	}

	classifierClient, err := llm.New(cfg.OpenAI.Classifier)
	if err != nil {
		return nil, fmt.Errorf("classifier client: %w", err)
	}

	emotionalClient, err := llm.New(cfg.OpenAI.Emotional)
	if err != nil {
		return nil, fmt.Errorf("emotional client: %w", err)
	}

	logicalClient, err := llm.New(cfg.OpenAI.Logical)
	if err != nil {
		return nil, fmt.Errorf("logical client: %w", err)
	}

	slog.Info("Using graph workflow",
		"classifier", cfg.OpenAI.Classifier.Model,
		"emotional", cfg.OpenAI.Emotional.Model,
		"logical", cfg.OpenAI.Logical.Model)

	return NewGraph(
		NewClassifierAgent(classifierClient),
		NewEmotionalAgent(emotionalClient),
		NewLogicalAgent(logicalClient),
	), nil
}
