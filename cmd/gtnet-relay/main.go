// Package main 提供独立的 GTNet 中继服务器
//
// 中继服务器为没有共同平台的玩家转发会话流量：
// wsrelay 提供者经 WebSocket 接入，按身份寻址互发报文，
// 富状态、大厅与花名册由服务器代管。
//
// 使用方法:
//
//	go run main.go -addr :7430
//
// 接入点:
//
//	/ws       WebSocket 接入
//	/metrics  Prometheus 指标
//	/healthz  存活探针
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gungeon-together/go-gtnet/pkg/relay"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("❌ 错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 解析命令行参数
	addr := flag.String("addr", ":7430", "监听地址")
	maxClients := flag.Int("max-clients", relay.DefaultMaxClients, "客户端表容量")
	clientTTL := flag.Duration("client-ttl", relay.DefaultClientTTL, "客户端静默过期时长")
	lobbyTTL := flag.Duration("lobby-ttl", relay.DefaultLobbyTTL, "大厅回收时长")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║            GTNet Relay Server                        ║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获中断信号
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		fmt.Printf("\n收到信号 %v，正在关闭...\n", sig)
		cancel()
	}()

	cfg := relay.DefaultConfig().
		WithMaxClients(*maxClients).
		WithClientTTL(*clientTTL).
		WithLobbyTTL(*lobbyTTL)

	hub, err := relay.New(cfg)
	if err != nil {
		return fmt.Errorf("创建中继枢纽失败: %w", err)
	}

	reg := prometheus.NewRegistry()
	hub.SetMetrics(relay.NewMetrics(reg))

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	mux.Handle("/metrics", relay.MetricsHandler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: *addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	printServerInfo(*addr, cfg)

	// 启动统计报告
	go reportStats(ctx, hub)

	// 等待关闭
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("中继服务器异常退出: %w", err)
	}

	fmt.Println("\n正在关闭中继服务器...")
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭 HTTP 服务失败: %w", err)
	}

	fmt.Println("再见! 👋")
	return nil
}

// printServerInfo 打印服务器信息
func printServerInfo(addr string, cfg relay.Config) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║                    服务器信息                         ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Printf("║ 监听地址: %s\n", addr)
	fmt.Println("║")
	fmt.Printf("║ 客户端表容量: %d\n", cfg.MaxClients)
	fmt.Printf("║ 客户端静默过期: %s\n", cfg.ClientTTL)
	fmt.Printf("║ 大厅回收时长: %s\n", cfg.LobbyTTL)
	fmt.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Println("客户端可以使用以下地址连接:")
	fmt.Printf("  ws://<host>%s/ws\n", addr)
	fmt.Println()

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("中继服务器已启动，等待客户端连接...")
	fmt.Println("按 Ctrl+C 停止服务器")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// reportStats 定期报告统计信息
func reportStats(ctx context.Context, hub *relay.Hub) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := hub.Stats()
			fmt.Printf("[Stats] 在线客户端: %d | 存活大厅: %d\n",
				stats.Clients, stats.Lobbies)
		}
	}
}
