// newsctl 은 관리자 API 용 CLI 이다.
//
//	newsctl generate -topic "reforma tributária" -category Economia
//	newsctl collect
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/generator"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: newsctl <generate|collect> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "collect":
		err = runCollect(ctx, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "newsctl:", err)
		os.Exit(1)
	}
}

func commonFlags(fs *flag.FlagSet) (api, token *string) {
	api = fs.String("api", envOr("NEWSCTL_API", "http://localhost:8080/api/v1"), "API base URL")
	token = fs.String("token", os.Getenv("NEWSCTL_TOKEN"), "admin bearer token (or cron secret for collect)")
	return api, token
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	api, token := commonFlags(fs)
	topic := fs.String("topic", "", "topic to search for")
	pageURL := fs.String("url", "", "source page URL (skips search)")
	category := fs.String("category", "", "category to store the post under")
	dryRun := fs.Bool("dry-run", false, "print the article without saving it")
	fs.Parse(args)

	if *topic == "" && *pageURL == "" {
		return fmt.Errorf("generate: -topic or -url is required")
	}

	c := newAdminClient(*api, *token)
	lastTitle := ""
	article, err := c.Generate(ctx, dto.GenerateRequestDTO{Topic: *topic, URL: *pageURL, Category: *category}, func(p generator.Parsed) {
		if p.Title != "" && p.Title != lastTitle {
			lastTitle = p.Title
			fmt.Fprintf(os.Stderr, "… %s\n", p.Title)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\n\n", article.Title, article.Excerpt)
	if *dryRun {
		fmt.Println(article.Content)
		return nil
	}

	post, err := c.CreatePost(ctx, postFromArticle(article, *category, *pageURL))
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	fmt.Printf("saved: %s (%s)\n", post.Slug, post.ID)
	return nil
}

func runCollect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	api, token := commonFlags(fs)
	fs.Parse(args)

	res, err := newAdminClient(*api, *token).Collect(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (collected %d in %dms)\n", res.Message, res.Collected, res.Duration)
	for _, p := range res.Posts {
		fmt.Printf("  - %s [%s]\n", p.Title, p.Category)
	}
	return nil
}
