package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/LJTian/LunchHub/internal/collector"
	"github.com/LJTian/LunchHub/internal/config"
	"github.com/LJTian/LunchHub/internal/notify"
	"github.com/LJTian/LunchHub/internal/processor"
	"github.com/LJTian/LunchHub/internal/scheduler"
	"github.com/LJTian/LunchHub/internal/storage"
	"github.com/alecthomas/kong"
)

// CLI 默认只抓取并打印菜单，--send 时同时发送
type CLI struct {
	Send    bool     `short:"s" help:"Send the digest through the configured channels"`
	Force   bool     `short:"f" help:"Send even if today's digest was already sent"`
	Sources []string `arg:"" optional:"" help:"Source codes to run (default: LUNCH_SOURCES)"`
}

func parseArgs(args []string, stdout, stderr io.Writer) (*CLI, error) {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("collect"),
		kong.Description("Fetch today's lunch menus once"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	if cli.Force && !cli.Send {
		return nil, fmt.Errorf("--force requires --send")
	}
	return cli, nil
}

// 一个仅执行一次的命令行入口
func main() {
	cli, err := parseArgs(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()

	codes := cfg.Sources
	if len(cli.Sources) > 0 {
		codes = cli.Sources
	}
	fetchers, err := collector.Build(codes, collector.NewTesseractOCR())
	if err != nil {
		log.Fatalf("init fetchers failed: %v", err)
	}

	job := &scheduler.Job{Fetchers: fetchers, Aggregator: processor.NewAggregator()}

	if !cli.Send {
		for _, m := range job.Collect() {
			out, err := m.JSON()
			if err != nil {
				log.Printf("encode %s: %v", m.Name, err)
				continue
			}
			fmt.Println(out)
		}
		return
	}

	senders, err := notify.FromConfig(cfg)
	if err != nil {
		log.Fatalf("init senders failed: %v", err)
	}
	job.Sender = senders
	if cfg.RedisAddr != "" {
		store, err := storage.NewStore(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		defer store.Close()
		job.Ledger = store
	}

	report, err := job.Run(context.Background(), cli.Force)
	if err != nil {
		log.Fatalf("send failed: %v", err)
	}
	log.Printf("done, subject=%q sent=%v", report.Subject, report.Sent)
}
