package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/mvdan/xurls"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/api"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/web"
)

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
	demo, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	if err := demo.EnsureModelLoaded(); err != nil {
		return err
	}
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	fmt.Println("Pick an image with `image <path or URL>`, then ask questions about it. `examples` lists ideas.")
	currentImagePath := ""
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "examples":
			for _, question := range web.ExampleQuestions {
				fmt.Println("  " + question)
			}
		case strings.HasPrefix(line, "image "):
			path, err := resolveImage(strings.TrimSpace(line[len("image "):]))
			if err != nil {
				fmt.Println(err)
				continue
			}
			currentImagePath = path
			fmt.Println("Using " + currentImagePath)
		default:
			if currentImagePath == "" {
				fmt.Println("No image selected yet. Use `image <path or URL>` first.")
				continue
			}
			result := demo.AnalyzeFile(currentImagePath, line)
			if result.Succeeded {
				fmt.Println(result.AnswerText)
			} else {
				fmt.Println(result.ErrorMessage)
			}
		}
	}
	return nil
}

// resolveImage turns the argument of the `image` command into a local file path, downloading it
// first when it is a URL.
func resolveImage(arg string) (string, error) {
	urls := xurls.Strict.FindAllString(arg, -1)
	if len(urls) == 0 {
		if _, err := os.Stat(arg); err != nil {
			return "", fmt.Errorf("no such file: %s", arg)
		}
		return arg, nil
	}
	url := urls[0]
	if !common.IsImageFormat(url) {
		return "", fmt.Errorf("\"%s\" does not look like an image URL", url)
	}
	path := filepath.Join(os.TempDir(), "gemma3vd_dl_"+uuid.NewString()+filepath.Ext(url))
	if err := common.DownloadFromURL(url, path); err != nil {
		return "", err
	}
	return path, nil
}
