package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"seeshare/cfg"
	"seeshare/metrics"
	"seeshare/pkg/domain"
	"seeshare/pkg/secret"
	"seeshare/svc/api"
	"seeshare/svc/db"
	"seeshare/svc/svc"
	"seeshare/svc/util"
)

const usage = `usage: seeshare <command> [options]

commands:
  quick    [text|-] [--file PATH]     share whatever is at hand (clipboard by default)
  shorten  URL [options]              shorten a link
  text     [content|-] [options]      share a text snippet
  upload   PATH [options]             upload a file
  history  list | rm | delete         manage the local share ledger
  domains  [url|text|file]            list usable domains
  tags                                list link tags
  stats    DOMAIN SLUG [--period P]   visit count for a short link
  usage                               account usage summary
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	c, err := cfg.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := cfg.Validate(c); err != nil {
		fatal("invalid configuration", err)
	}
	defer c.Wipe()
	util.InitLog(c.LogLevel, c.Environment == "development")
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.APIKeyFromSecrets {
		adapter, err := secret.NewAdapter(ctx)
		if err != nil {
			fatal("failed to initialize secret provider", err)
		}
		key, err := adapter.GetSecret(ctx, "SEE_API_KEY")
		if err != nil {
			fatal("failed to load API key from secret provider", err)
		}
		c.APIKey.Set(key)
	}

	store, err := openStore(c)
	if err != nil {
		fatal("failed to open history store", err)
	}
	defer store.Close()

	client := api.NewClient(c)
	defs, err := svc.NewDefaults(client, c)
	if err != nil {
		fatal("failed to initialize defaults", err)
	}
	share := svc.NewShare(client, store, defs, cliClipboard{})

	if err := run(ctx, os.Args[1], os.Args[2:], share, client); err != nil {
		util.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func openStore(c *cfg.Cfg) (db.Store, error) {
	switch c.HistoryBackend {
	case "redis":
		return db.NewRedis(c)
	default:
		return db.NewSQLiteWithConfig(c.HistoryPath, c.DBQueryTimeout)
	}
}

func run(ctx context.Context, cmd string, args []string, share *svc.Share, client *api.Client) error {
	switch cmd {
	case "quick":
		return cmdQuick(ctx, args, share)
	case "shorten":
		return cmdShorten(ctx, args, share)
	case "text":
		return cmdText(ctx, args, share)
	case "upload":
		return cmdUpload(ctx, args, share)
	case "history":
		return cmdHistory(ctx, args, share)
	case "domains":
		return cmdDomains(ctx, args, share)
	case "tags":
		return cmdTags(ctx, share)
	case "stats":
		return cmdStats(ctx, args, share)
	case "usage":
		return cmdUsage(ctx, client)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// literalSource offers one fixed piece of text, for `seeshare quick <text>`.
type literalSource struct {
	text string
}

func (literalSource) SelectedFile() (string, bool)    { return "", false }
func (literalSource) ClipboardFile() (string, bool)   { return "", false }
func (s literalSource) ClipboardText() (string, bool) { return s.text, s.text != "" }

func cmdQuick(ctx context.Context, args []string, share *svc.Share) error {
	fs := flag.NewFlagSet("quick", flag.ExitOnError)
	file := fs.String("file", "", "share this file instead of probing the clipboard")
	title := fs.String("title", "", "title to use when the content turns out to be text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var src svc.Source
	switch {
	case *file != "":
		src = cliSource{file: *file}
	case len(fs.Args()) == 1 && fs.Arg(0) == "-":
		src = cliSource{stdin: true}
	case len(fs.Args()) > 0:
		src = literalSource{text: strings.Join(fs.Args(), " ")}
	default:
		src = cliSource{}
	}
	res, err := share.QuickShare(ctx, src, cliPrompter{preset: *title})
	if err != nil {
		return err
	}
	return report(res)
}

func cmdShorten(ctx context.Context, args []string, share *svc.Share) error {
	fs := flag.NewFlagSet("shorten", flag.ExitOnError)
	dom := fs.String("domain", "", "short domain")
	slug := fs.String("slug", "", "custom slug")
	title := fs.String("title", "", "link title")
	password := fs.String("password", "", "access password")
	expire := fs.Int64("expire", 0, "expiry as a unix timestamp")
	tags := fs.String("tags", "", "comma-separated tag IDs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("shorten: exactly one URL expected")
	}
	tagIDs, err := parseTagIDs(*tags)
	if err != nil {
		return err
	}
	res, err := share.ShareURL(ctx, fs.Arg(0), svc.URLOptions{
		Domain:     *dom,
		CustomSlug: *slug,
		Title:      *title,
		Password:   *password,
		ExpireAt:   *expire,
		TagIDs:     tagIDs,
	})
	if err != nil {
		return err
	}
	return report(res)
}

func cmdText(ctx context.Context, args []string, share *svc.Share) error {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	title := fs.String("title", "", "title (required)")
	dom := fs.String("domain", "", "text domain")
	slug := fs.String("slug", "", "custom slug")
	password := fs.String("password", "", "access password")
	expire := fs.Int64("expire", 0, "expiry as a unix timestamp")
	textType := fs.String("type", "", "plain_text, source_code or markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var content string
	switch {
	case fs.NArg() == 1 && fs.Arg(0) == "-":
		data, err := readStdin()
		if err != nil {
			return err
		}
		content = string(data)
	case fs.NArg() > 0:
		content = strings.Join(fs.Args(), " ")
	default:
		return fmt.Errorf("text: content argument or - expected")
	}
	res, err := share.ShareText(ctx, content, *title, svc.TextOptions{
		Domain:     *dom,
		CustomSlug: *slug,
		Password:   *password,
		ExpireAt:   *expire,
		TextType:   api.TextType(*textType),
	})
	if err != nil {
		return err
	}
	return report(res)
}

func cmdUpload(ctx context.Context, args []string, share *svc.Share) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	dom := fs.String("domain", "", "file domain")
	slug := fs.String("slug", "", "custom slug")
	private := fs.Bool("private", false, "restrict access to signed URLs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("upload: exactly one path expected")
	}
	res, err := share.ShareFile(ctx, fs.Arg(0), svc.FileOptions{
		Domain:     *dom,
		CustomSlug: *slug,
		Private:    *private,
	})
	if err != nil {
		return err
	}
	return report(res)
}

func cmdHistory(ctx context.Context, args []string, share *svc.Share) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items, err := share.History(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("history is empty")
			return nil
		}
		for _, it := range items {
			fmt.Printf("%-19s  %-4s  %-40s  %s\n", it.CreatedAt, it.Kind, it.ShareURL, it.Title)
		}
		return nil
	case "rm":
		fs := flag.NewFlagSet("history rm", flag.ExitOnError)
		at := fs.String("at", "", "narrow removal to the entry with this timestamp")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("history rm: exactly one share URL expected")
		}
		return share.RemoveLocal(ctx, fs.Arg(0), *at)
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("history delete: exactly one share URL expected")
		}
		items, err := share.History(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ShareURL == args[1] {
				return share.Delete(ctx, it)
			}
		}
		return fmt.Errorf("history delete: %s not found in the local ledger", args[1])
	default:
		return fmt.Errorf("history: expected list, rm or delete")
	}
}

func cmdDomains(ctx context.Context, args []string, share *svc.Share) error {
	kind := domain.KindURL
	if len(args) > 0 {
		switch args[0] {
		case "url":
			kind = domain.KindURL
		case "text":
			kind = domain.KindText
		case "file":
			kind = domain.KindFile
		default:
			return fmt.Errorf("domains: expected url, text or file")
		}
	}
	list, err := share.Domains(ctx, kind)
	if err != nil {
		return err
	}
	for _, d := range list {
		fmt.Println(d)
	}
	return nil
}

func cmdTags(ctx context.Context, share *svc.Share) error {
	form, err := share.ShortURLForm(ctx)
	if err != nil {
		return err
	}
	for _, t := range form.Tags {
		fmt.Printf("%d\t%s\n", t.ID, t.Name)
	}
	return nil
}

func cmdStats(ctx context.Context, args []string, share *svc.Share) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	period := fs.String("period", "", "aggregation period understood by the service")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("stats: DOMAIN and SLUG expected")
	}
	count, err := share.Stats(ctx, fs.Arg(0), fs.Arg(1), *period)
	if err != nil {
		return err
	}
	fmt.Printf("%d visits\n", count)
	return nil
}

func cmdUsage(ctx context.Context, client *api.Client) error {
	acct, err := client.Usage(ctx)
	if err != nil {
		return err
	}
	for key, raw := range acct {
		fmt.Printf("%s: %s\n", key, string(raw))
	}
	return nil
}

func report(res *domain.ShareResult) error {
	util.Info().Str("kind", string(res.Kind)).Str("url", res.ShareURL).Msg("shared")
	if res.HistoryErr != nil {
		util.Warn().Err(res.HistoryErr).Msg("shared, but history recording failed")
	}
	return nil
}

func parseTagIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid tag ID %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func fatal(msg string, err error) {
	util.Fatal().Err(err).Msg(msg)
	os.Exit(1)
}
