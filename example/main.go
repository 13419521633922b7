package main

import (
	"context"

	gutils "github.com/Laisky/go-utils"
	"github.com/Laisky/zap"

	eventive "github.com/openbukkitutils/eventive"
	"github.com/openbukkitutils/eventive/types"
)

const (
	playerJoin types.Name = "player.join"
	playerChat types.Name = "player.chat"
)

type playerJoinEvent struct {
	player string
}

func (e *playerJoinEvent) EventName() types.Name { return playerJoin }

type playerChatEvent struct {
	types.Cancel
	player  string
	message string
}

func (e *playerChatEvent) EventName() types.Name { return playerChat }

type examplePlugin struct{}

func (examplePlugin) Name() string { return "example" }

func main() {
	ctx := context.Background()

	dispatcher, err := eventive.NewDispatcher(ctx)
	if err != nil {
		gutils.Logger.Panic("new dispatcher", zap.Error(err))
	}

	util, err := eventive.New(dispatcher, examplePlugin{})
	if err != nil {
		gutils.Logger.Panic("new util", zap.Error(err))
	}

	// greet joining players
	if err := eventive.On(util, playerJoin, types.PriorityNormal, func(evt *playerJoinEvent) error {
		gutils.Logger.Info("player joined", zap.String("player", evt.player))
		return nil
	}); err != nil {
		gutils.Logger.Panic("register join executor", zap.Error(err))
	}

	// mute the chat while maintenance is on
	maintenance := true
	if err := util.CancelEventWhen(new(playerChatEvent),
		func() bool { return maintenance },
		types.PriorityLow,
	); err != nil {
		gutils.Logger.Panic("register chat canceller", zap.Error(err))
	}

	dispatcher.Call(ctx, &playerJoinEvent{player: "steve"})

	chat := &playerChatEvent{player: "steve", message: "anyone here?"}
	dispatcher.Call(ctx, chat)
	gutils.Logger.Info("chat dispatched", zap.Bool("cancelled", chat.Cancelled()))

	util.UnregisterAll()
}
