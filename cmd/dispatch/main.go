// Package main 提供 dispatch 命令行入口
//
// 从标准输入逐行读取 JSON 管理请求，在标准输出逐行写出响应。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("dispatch/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile = flag.String("config", "", "配置文件路径（.json / .hcl）")

	// ─────────────────────────────────────────────────────────────────────
	// 日志参数
	// ─────────────────────────────────────────────────────────────────────
	logLevel  = flag.String("log-level", "", "日志级别 (debug/info/warn/error)")
	logFormat = flag.String("log-format", "", "日志格式 (text/json)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

const (
	shutdownTimeout = 10 * time.Second
	maxLineSize     = 1 << 20
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showHelp {
		printUsage()
		return nil
	}
	if *showVersion {
		fmt.Println(dispatch.VersionInfo())
		return nil
	}

	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if isFlagSet("log-level") {
		cfg.Log.Level = *logLevel
	}
	if isFlagSet("log-format") {
		cfg.Log.Format = *logFormat
	}
	if err := config.ValidateAll(cfg); err != nil {
		for _, e := range config.Errors(err) {
			fmt.Fprintf(os.Stderr, "配置错误: %v\n", e)
		}
		return errors.New("配置无效")
	}
	if err := setupLogging(cfg.Log); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	router, err := dispatch.Start(ctx, dispatch.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("启动路由器失败: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		if err := router.Stop(stopCtx); err != nil {
			logger.Warn("停止路由器失败", "error", err)
		}
	}()

	if srv := serveMetrics(cfg.Metrics.ListenAddr, router.MetricsHandler()); srv != nil {
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	added, err := router.Subscribe(new(types.EvtAddressConfigAdded))
	if err != nil {
		return err
	}
	defer added.Close()
	removed, err := router.Subscribe(new(types.EvtAddressConfigRemoved))
	if err != nil {
		return err
	}
	defer removed.Close()

	logger.Info("等待管理请求", "entityTypes", router.EntityTypes())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return serve(gctx, router, os.Stdin, os.Stdout)
	})
	g.Go(func() error {
		watchEvents(gctx, added.Out(), removed.Out())
		return nil
	})
	return g.Wait()
}

// watchEvents 记录注册表变更
func watchEvents(ctx context.Context, added, removed <-chan any) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-added:
			if !ok {
				return
			}
			e := evt.(types.EvtAddressConfigAdded)
			logger.Info("地址配置已创建",
				"identity", e.Identity,
				"prefix", e.Prefix,
				"distribution", e.Treatment.String(),
				"waypoint", e.Waypoint())
		case evt, ok := <-removed:
			if !ok {
				return
			}
			e := evt.(types.EvtAddressConfigRemoved)
			logger.Info("地址配置已删除", "identity", e.Identity, "prefix", e.Prefix)
		}
	}
}

// serve 逐行处理请求，直到输入结束或收到信号
func serve(ctx context.Context, router *dispatch.Router, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		select {
		case <-ctx.Done():
			logger.Info("收到退出信号")
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}
			if err := handleLine(ctx, router, line, w); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

// handleLine 处理一行请求并写出一行响应
func handleLine(ctx context.Context, router *dispatch.Router, line []byte, w io.Writer) error {
	req, err := decodeRequest(line)
	if err != nil {
		logger.Debug("请求解析失败", "error", err)
		return writeLine(w, encodeError(err))
	}

	resp, err := router.Manage(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return writeLine(w, encodeError(err))
	}

	out, err := encodeResponse(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return writeLine(w, out)
}

func writeLine(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// setupLogging 按配置初始化全局日志
func setupLogging(c config.LogConfig) error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	format, err := log.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	log.Setup(os.Stderr, level, format)
	return nil
}

// serveMetrics 在配置了导出地址时启动 Prometheus 导出
func serveMetrics(addr string, h http.Handler) *http.Server {
	if addr == "" || h == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标导出失败", "addr", addr, "error", err)
		}
	}()
	logger.Info("指标导出已启动", "addr", addr)
	return srv
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "用法: dispatch [选项]\n\n")
	fmt.Fprintf(os.Stderr, "从标准输入逐行读取 JSON 管理请求，例如:\n")
	fmt.Fprintf(os.Stderr, "  {\"operation\":\"CREATE\",\"type\":\"org.apache.qpid.dispatch.router.config.address\",\"name\":\"a\",\"body\":{\"prefix\":\"a/\"}}\n\n")
	fmt.Fprintf(os.Stderr, "选项:\n")
	flag.PrintDefaults()
}
