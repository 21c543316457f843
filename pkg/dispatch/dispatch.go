// Package dispatch ties the router and the specialists together: one
// classification, exactly one agent invocation, one result.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/deepdiagram/backend/pkg/agents"
	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
	"github.com/deepdiagram/backend/pkg/router"
)

// Request is one inbound dispatch cycle.
type Request struct {
	Turns    []conversation.Turn
	Artifact artifact.State
	// Agent pins a specialist by name and skips classification. This is
	// how the mermaid family, which the router never selects on its
	// own, stays reachable.
	Agent string
}

type Result struct {
	Intent router.Intent
	Agent  string
	State  agents.State
}

type Dispatcher struct {
	router *router.Router
	byName *orderedmap.OrderedMap[string, agents.Runner]
	routes map[router.Intent]agents.Runner
	logger *slog.Logger
}

// New builds a dispatcher over the five diagram families plus the
// general fallback. routerClient may be a faster model than the
// generation client; pass the same client for both when in doubt.
func New(routerClient, client llm.Client, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		router: router.New(routerClient, logger.With("module", "router")),
		byName: orderedmap.New[string, agents.Runner](),
		routes: map[router.Intent]agents.Runner{},
		logger: logger,
	}
	agentLogger := logger.With("module", "agents")
	d.register(router.IntentMindmap, agents.New(agents.Mindmap(), client, agentLogger))
	d.register(router.IntentFlow, agents.New(agents.Flow(), client, agentLogger))
	d.register(router.IntentCharts, agents.New(agents.Charts(), client, agentLogger))
	d.register(router.IntentDrawio, agents.New(agents.Drawio(), client, agentLogger))
	d.register(router.IntentGeneral, agents.NewGeneral(client, agentLogger))
	// Reachable only via an explicit agent pin on the request.
	d.byName.Set("mermaid", agents.New(agents.Mermaid(), client, agentLogger))
	return d
}

func (d *Dispatcher) register(intent router.Intent, r agents.Runner) {
	d.byName.Set(r.Name(), r)
	d.routes[intent] = r
}

// Agents lists the registered specialist names in registration order.
func (d *Dispatcher) Agents() []string {
	names := make([]string, 0, d.byName.Len())
	for pair := d.byName.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Dispatch runs one cycle: classify (unless an agent is pinned), hand
// the state to exactly one specialist, and return the updated state.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	requestID, err := uuid.NewV7()
	if err != nil {
		// Random-read failure; fall back to a v4 id.
		requestID = uuid.New()
	}
	logger := d.logger.With("request_id", requestID.String())

	st := agents.State{Turns: req.Turns, Artifact: req.Artifact}

	var target agents.Runner
	var intent router.Intent
	if req.Agent != "" {
		r, ok := d.byName.Get(req.Agent)
		if !ok {
			return Result{}, fmt.Errorf("unknown agent %q", req.Agent)
		}
		target = r
		// No classification happened; label the cycle with the pinned
		// agent's own name.
		intent = router.Intent(target.Name())
	} else {
		intent = d.router.Classify(ctx, st.Turns, st.Artifact)
		target = d.routes[intent]
	}
	logger.Info("dispatching", "intent", intent, "agent", target.Name())

	st, err = target.Run(ctx, st)
	if err != nil {
		return Result{}, fmt.Errorf("agent %s: %w", target.Name(), err)
	}
	return Result{Intent: intent, Agent: target.Name(), State: st}, nil
}
