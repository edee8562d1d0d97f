package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mvdan/xurls"
	hbot "github.com/whyrusleeping/hellabot"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/api"
)

// An IRC frontend: address the bot with an image URL and a question, get the model's answer back
// in the channel. Example: "gemma3: https://example.com/cat.jpg what breed is this?"

func main() {
	err := mainImpl()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	botName := config.GetStringOrDefault("ircBotName", "gemma3")
	serverName := config.GetStringOrDefault("ircServerName", "irc.euirc.net:6667")
	roomName := config.GetStringOrDefault("ircRoomName", "#gemma3-demo")
	demo, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	if err := demo.EnsureModelLoaded(); err != nil {
		return err
	}
	ircBot, err := hbot.NewBot(serverName, botName, func(b *hbot.Bot) {
		b.Channels = []string{roomName}
	})
	if err != nil {
		return err
	}
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return true
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			if m.Command != "PRIVMSG" {
				return true
			}
			if !strings.HasPrefix(strings.ToLower(m.Content), strings.ToLower(botName)) {
				return true
			}
			what := strings.TrimSpace(m.Content[len(botName):])
			if len(what) == 0 || len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			if what[0] == ',' || what[0] == ':' {
				what = strings.TrimSpace(what[1:])
			}
			b.Reply(m, m.From+": "+answer(demo, what))
			return false
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Run()
	return nil
}

func answer(demo api.API, what string) string {
	urls := xurls.Strict.FindAllString(what, -1)
	if len(urls) == 0 || !common.IsImageFormat(urls[0]) {
		return "give me an image URL and a question about it"
	}
	url := urls[0]
	question := strings.TrimSpace(strings.ReplaceAll(what, url, ""))
	imagePath := filepath.Join(os.TempDir(), "gemma3vd_irc_"+uuid.NewString()+filepath.Ext(url))
	if err := common.DownloadFromURL(url, imagePath); err != nil {
		return "couldn't download that image"
	}
	defer func() {
		_ = os.Remove(imagePath)
	}()
	result := demo.AnalyzeFile(imagePath, question)
	if !result.Succeeded {
		return result.ErrorMessage
	}
	return result.AnswerText
}
