package chats

import (
	"strings"

	"github.com/julianstephens/daypoints/internal/app"
	"github.com/julianstephens/daypoints/internal/chat"
	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/config"
)

type ChatCmd struct {
	Send    ChatSendCmd    `cmd:"" help:"Send a message to the companion." default:"withargs"`
	History ChatHistoryCmd `cmd:"" help:"Show recent exchanges."`
	Info    ChatInfoCmd    `cmd:"" help:"Show the chat backend."`
}

// services wires a model generator when one is configured.
func services(ctx *cli.Context) (*app.App, error) {
	cfg := ctx.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	return ctx.ServicesWith(app.Options{Generator: app.NewGenerator(ctx.Context(), cfg.GenAI)})
}

type ChatSendCmd struct {
	Message []string `arg:"" help:"Message text."`
	Session string   `help:"Continue a session id."`
	User    string   `help:"User id for the transcript."`
}

func (c *ChatSendCmd) Run(ctx *cli.Context) error {
	a, err := services(ctx)
	if err != nil {
		return err
	}
	resp, err := a.Chat.Send(ctx.Context(), chat.Request{
		Text:      strings.Join(c.Message, " "),
		SessionID: c.Session,
		UserID:    c.User,
	})
	if err != nil {
		return err
	}

	ctx.Println(resp.Reply)
	meta := "session " + resp.SessionID + " · " + resp.Model
	if resp.Simulated {
		meta += " (simulated)"
	}
	ctx.Println(cli.MutedStyle.Render(meta))
	return nil
}

type ChatHistoryCmd struct {
	Session string `help:"Only this session."`
	User    string `help:"User id (default: anonymous)."`
	Limit   int    `short:"n" help:"Number of exchanges." default:"20"`
}

func (c *ChatHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Services()
	if err != nil {
		return err
	}
	convs, err := a.Chat.History(ctx.Context(), c.User, c.Session, c.Limit)
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		ctx.Println("No conversations yet.")
		return nil
	}
	for _, conv := range convs {
		ctx.Println(cli.MutedStyle.Render(conv.CreatedAt.Local().Format("2006-01-02 15:04") + "  " + conv.SessionID))
		ctx.Println("  you: " + conv.Message)
		ctx.Println("  bot: " + conv.Response)
	}
	return nil
}

type ChatInfoCmd struct{}

func (c *ChatInfoCmd) Run(ctx *cli.Context) error {
	a, err := services(ctx)
	if err != nil {
		return err
	}
	info := a.Chat.Info(ctx.Context())
	ctx.Printf("mode:  %s\n", info.Mode)
	ctx.Printf("model: %s\n", info.Model)
	if info.StoreConnected {
		ctx.Println("store: connected")
	} else {
		ctx.Printf("store: unavailable (%s)\n", info.StoreError)
	}
	return nil
}
