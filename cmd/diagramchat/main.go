// Command diagramchat is a local REPL over the dispatcher. It keeps the
// conversation and the current artifact in memory, with no server or
// database involved, which makes it handy for prompt tweaking.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/deepdiagram/backend/pkg/config"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/dispatch"
	"github.com/deepdiagram/backend/pkg/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	routerClient, client, err := cfg.Clients(ctx)
	if err != nil {
		log.Fatal(err)
	}
	dispatcher := dispatch.New(routerClient, client, logging.NewModuleLogger("dispatch"))

	p := promptui.Prompt{
		Label: "> ",
	}

	var req dispatch.Request
	for {
		line, err := p.Run()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "\\q" {
			break
		}
		if line == "\\agents" {
			for _, name := range dispatcher.Agents() {
				fmt.Println(name)
			}
			continue
		}
		if name, ok := strings.CutPrefix(line, "\\agent"); ok {
			req.Agent = strings.TrimSpace(name)
			if req.Agent == "" {
				fmt.Println("agent pin cleared")
			} else {
				fmt.Printf("pinned to %s\n", req.Agent)
			}
			continue
		}

		req.Turns = append(req.Turns, conversation.User(line))
		result, err := dispatcher.Dispatch(ctx, req)
		if err != nil {
			log.Fatal(err)
		}
		for _, turn := range result.State.Turns[len(req.Turns):] {
			if turn.Role == conversation.RoleAssistant && turn.Call != nil {
				fmt.Printf("[%s -> %s]\n", result.Agent, turn.Call.Name)
				continue
			}
			if text := turn.Text(); text != "" {
				fmt.Println(text)
			}
		}
		req.Turns = result.State.Turns
		req.Artifact = result.State.Artifact
	}
}
