// Package main 提供 gtnet 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	gtnet "github.com/gungeon-together/go-gtnet"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/provider/wsrelay"
)

var logger = log.Logger("gtnet/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 配置边界：
//
//	命令行参数：运行时覆盖 / 快速测试（「这次运行」想怎么跑）
//	JSON 配置文件：持久化配置 / 长期运行（「这个节点」的固定配置）
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 运行时参数（快速指定）
	// ─────────────────────────────────────────────────────────────────────
	relayURL   = flag.String("relay", "", "中继服务器地址 (ws://host:7430/ws)")
	identity   = flag.String("id", "", "平台身份（十进制，空 = 随机演示身份）")
	playerName = flag.String("name", "Player", "玩家展示名")
	configFile = flag.String("config", "", "配置文件路径")
	preset     = flag.String("preset", "", "预设配置 (lan/relaxed/minimal)")

	// ─────────────────────────────────────────────────────────────────────
	// 会话角色
	// ─────────────────────────────────────────────────────────────────────
	hostMode = flag.Bool("host", false, "启动后立即托管会话")
	joinID   = flag.String("join", "", "启动后加入指定主机（十进制身份）")
	autoJoin = flag.Bool("auto-join", false, "发现主机后自动加入最优者")

	// ─────────────────────────────────────────────────────────────────────
	// 日志参数
	// ─────────────────────────────────────────────────────────────────────
	logFile = flag.String("log", "", "日志文件路径")
	logDir  = flag.String("log-dir", "logs", "日志目录")
	autoLog = flag.Bool("auto-log", true, "自动生成日志文件")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

// actualLogPath 实际使用的日志文件路径（用于输出显示）
var actualLogPath string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	// 显示版本
	if *showVersion {
		printVersion()
		return nil
	}

	// 显示帮助
	if *showHelp {
		printHelp()
		return nil
	}

	// 设置日志
	var logFileHandle *os.File
	var err error
	actualLogPath, logFileHandle, err = setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: %v\n", err)
		fmt.Fprintln(os.Stderr, "将继续使用控制台输出日志")
	}
	if logFileHandle != nil {
		defer func() { _ = logFileHandle.Close() }()
	}

	// 构建选项
	opts, provider, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	if provider != nil {
		defer func() { _ = provider.Close() }()
	}

	// 创建上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 打印版本信息（部署验证）
	fmt.Printf("📦 %s\n", gtnet.VersionInfo())
	logger.Info("启动 gtnet 节点",
		"version", gtnet.Version, "commit", gtnet.GitCommit, "buildDate", gtnet.BuildDate)

	// 启动节点
	fmt.Println("正在启动 gtnet 节点...")
	node, err := gtnet.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	// 显示节点信息（美化输出）
	printNodeInfo(node)

	// 订阅并播报会话事件
	go watchEvents(ctx, node)

	// 启动统计报告
	go reportStats(ctx, node)

	// 执行会话角色
	if err := enterSession(ctx, node); err != nil {
		return err
	}

	// 等待退出信号
	fmt.Println("节点已启动，按 Ctrl+C 退出")
	waitForSignal()

	fmt.Println("\n正在关闭节点...")
	return nil
}

// buildOptions 构建选项
//
// 配置优先级（从高到低）：
//  1. 命令行参数（运行时覆盖）
//  2. 环境变量（GTNET_* 前缀）
//  3. 配置文件（持久化配置）
//  4. 预设默认值
func buildOptions() ([]gtnet.Option, *wsrelay.Provider, error) {
	var opts []gtnet.Option

	// ═══════════════════════════════════════════════════════════════════
	// 1. 预设与配置文件（持久化配置）
	// ═══════════════════════════════════════════════════════════════════
	if *preset != "" {
		if !gtnet.IsValidPreset(*preset) {
			return nil, nil, fmt.Errorf("未知预设 %q（可选: %v）", *preset, gtnet.AvailablePresets())
		}
		opts = append(opts, gtnet.WithPreset(*preset))
	}
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		opts = append(opts, gtnet.WithConfigJSON(data))
	}

	// ═══════════════════════════════════════════════════════════════════
	// 2. 环境变量覆盖（GTNET_* 前缀）
	// ═══════════════════════════════════════════════════════════════════
	opts = append(opts, gtnet.WithEnvOverrides())

	// ═══════════════════════════════════════════════════════════════════
	// 3. 平台提供者（命令行参数，最高优先级）
	// ═══════════════════════════════════════════════════════════════════
	var provider *wsrelay.Provider
	if *relayURL != "" {
		id, err := resolveIdentity()
		if err != nil {
			return nil, nil, err
		}
		provider, err = wsrelay.Dial(wsrelay.NewConfig(*relayURL, id, *playerName))
		if err != nil {
			return nil, nil, fmt.Errorf("接入中继失败: %w", err)
		}
		opts = append(opts, gtnet.WithProvider(provider))
	} else {
		fmt.Println("⚠ 未指定 -relay，节点将在无平台的降级状态下运行")
	}

	opts = append(opts, gtnet.WithProfile(gtnet.Profile{Name: *playerName}))
	return opts, provider, nil
}

// resolveIdentity 解析或派生本机身份
//
// 未指定 -id 时从时间派生一个演示身份，落在平台身份段内，
// 仅用于临场测试，正式部署应传入真实平台身份。
func resolveIdentity() (gtnet.Identity, error) {
	if *identity != "" {
		id, err := gtnet.ParseIdentity(*identity)
		if err != nil {
			return gtnet.EmptyIdentity, fmt.Errorf("非法身份 %q: %w", *identity, err)
		}
		return id, nil
	}
	derived := gtnet.Identity(76561197960265728 + uint64(time.Now().UnixNano())%(1<<31))
	fmt.Printf("未指定 -id，使用演示身份 %s\n", derived)
	return derived, nil
}

// enterSession 按命令行指定的角色进入会话
func enterSession(ctx context.Context, node *gtnet.Node) error {
	switch {
	case *hostMode:
		if err := node.StartHosting(); err != nil {
			return fmt.Errorf("托管会话失败: %w", err)
		}
		fmt.Println("🎮 已开始托管，等待好友加入...")

	case *joinID != "":
		target, err := gtnet.ParseIdentity(*joinID)
		if err != nil {
			return fmt.Errorf("非法主机身份 %q: %w", *joinID, err)
		}
		if err := node.JoinHost(target, ""); err != nil {
			return fmt.Errorf("加入主机失败: %w", err)
		}
		fmt.Printf("🔗 正在加入主机 %s ...\n", target)

	case *autoJoin:
		fmt.Println("🔍 等待发现主机后自动加入...")
		go autoJoinLoop(ctx, node)
	}
	return nil
}

// autoJoinLoop 轮询主机目录，出现可用主机即加入
func autoJoinLoop(ctx context.Context, node *gtnet.Node) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if node.SessionState() != gtnet.SessionIdle {
				continue
			}
			if node.BestHost(gtnet.EmptyIdentity).IsEmpty() {
				continue
			}
			if err := node.JoinBest(gtnet.EmptyIdentity); err != nil {
				logger.Warn("自动加入失败", "err", err)
			}
		}
	}
}

// watchEvents 订阅会话事件并输出到控制台
func watchEvents(ctx context.Context, node *gtnet.Node) {
	stateSub, err := node.Subscribe(new(gtnet.EvtSessionStateChanged))
	if err != nil {
		logger.Warn("订阅会话状态失败", "err", err)
		return
	}
	defer stateSub.Close()

	hostSub, err := node.Subscribe(new(gtnet.EvtHostDiscovered))
	if err != nil {
		logger.Warn("订阅主机发现失败", "err", err)
		return
	}
	defer hostSub.Close()

	joinSub, err := node.Subscribe(new(gtnet.EvtPlayerJoined))
	if err != nil {
		logger.Warn("订阅玩家加入失败", "err", err)
		return
	}
	defer joinSub.Close()

	leftSub, err := node.Subscribe(new(gtnet.EvtPlayerLeft))
	if err != nil {
		logger.Warn("订阅玩家离开失败", "err", err)
		return
	}
	defer leftSub.Close()

	inviteSub, err := node.Subscribe(new(gtnet.EvtInviteReceived))
	if err != nil {
		logger.Warn("订阅邀请失败", "err", err)
		return
	}
	defer inviteSub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-stateSub.Out():
			evt := e.(*gtnet.EvtSessionStateChanged)
			fmt.Printf("[事件] 会话状态: %s → %s\n", evt.Old, evt.New)
		case e := <-hostSub.Out():
			evt := e.(*gtnet.EvtHostDiscovered)
			fmt.Printf("[事件] 发现主机: %s (%s, %d 人)\n",
				evt.Host.ID, evt.Host.DisplayName, evt.Host.PlayerCount)
		case e := <-joinSub.Out():
			evt := e.(*gtnet.EvtPlayerJoined)
			fmt.Printf("[事件] 玩家加入: %s (%s)\n", evt.Player, evt.Name)
		case e := <-leftSub.Out():
			evt := e.(*gtnet.EvtPlayerLeft)
			fmt.Printf("[事件] 玩家离开: %s (%s)\n", evt.Player, evt.Reason)
		case e := <-inviteSub.Out():
			evt := e.(*gtnet.EvtInviteReceived)
			fmt.Printf("[事件] 收到邀请: 来自 %s\n", evt.From)
		}
	}
}

// reportStats 定期报告统计信息
func reportStats(ctx context.Context, node *gtnet.Node) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := node.Stats()
			fmt.Printf("[Stats] 状态: %s | 同行: %d | 发现主机: %d | 发/收: %d/%d 包\n",
				node.SessionState(), len(node.Peers()), len(node.Hosts()),
				snap.PacketsSent, snap.PacketsRecv)
		}
	}
}

// waitForSignal 等待退出信号
func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

// setupLogging 设置日志输出
//
// 根据配置自动创建日志文件，返回实际使用的日志路径。
// 如果禁用自动日志且未指定日志文件，返回空字符串（日志输出到 stderr）。
//
// 日志文件命名规则：
//   - 托管节点: host-{timestamp}-{pid}.log
//   - 加入节点: join-{timestamp}-{pid}.log
//   - 普通节点: gtnet-{timestamp}-{pid}.log
func setupLogging() (string, *os.File, error) {
	// 如果禁用自动日志且未指定日志文件，则不使用文件日志
	if !*autoLog && *logFile == "" {
		return "", nil, nil
	}

	logPath := *logFile
	if logPath == "" {
		prefix := determineLogPrefix()
		timestamp := time.Now().Format("20060102-150405")
		logPath = filepath.Join(*logDir, fmt.Sprintf("%s-%s-%d.log", prefix, timestamp, os.Getpid()))
	}

	// 确保日志目录存在
	if err := os.MkdirAll(filepath.Dir(logPath), 0750); err != nil {
		return "", nil, fmt.Errorf("创建日志目录失败: %w", err)
	}

	// 打开日志文件
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return "", nil, fmt.Errorf("打开日志文件失败: %w", err)
	}

	// 设置全局日志输出
	log.SetOutput(file)

	return logPath, file, nil
}

// determineLogPrefix 根据会话角色确定日志文件前缀
func determineLogPrefix() string {
	if *hostMode {
		return "host"
	}
	if *joinID != "" || *autoJoin {
		return "join"
	}
	return "gtnet"
}

// printNodeInfo 打印节点信息（美化输出）
func printNodeInfo(node *gtnet.Node) {
	cfg := node.Config()

	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════════════════╗")
	fmt.Printf("║                    GTNet Node Started (%s)                          ║\n", gtnet.Version)
	fmt.Println("╠════════════════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  本机身份: %-58s  ║\n", node.LocalID())
	fmt.Printf("║  玩家名称: %-58s  ║\n", *playerName)
	if *relayURL != "" {
		fmt.Printf("║  中继地址: %-58s  ║\n", *relayURL)
	} else {
		fmt.Printf("║  中继地址: %-58s  ║\n", "(未接入，降级运行)")
	}
	fmt.Println("║                                                                        ║")
	fmt.Printf("║  主机存活窗口: %-10s 好友扫描间隔: %-10s 同行上限: %-5d    ║\n",
		cfg.Discovery.HostTTL.Duration(),
		cfg.Discovery.FriendScanInterval.Duration(),
		cfg.Session.MaxPeers)

	if actualLogPath != "" {
		fmt.Println("║                                                                        ║")
		fmt.Printf("║  日志文件: %-58s  ║\n", actualLogPath)
	}

	fmt.Println("╚════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("gtnet %s\n", gtnet.Version)
	if gtnet.GitCommit != "" {
		fmt.Printf("  commit: %s\n", gtnet.GitCommit)
	}
	if gtnet.BuildDate != "" {
		fmt.Printf("  built:  %s\n", gtnet.BuildDate)
	}
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("gtnet - Enter the Gungeon 联机会话层")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  gtnet [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("配置边界说明")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("命令行参数（运行时覆盖）：")
	fmt.Println("  -relay, -id, -name            # 平台接入")
	fmt.Println("  -host, -join, -auto-join      # 会话角色")
	fmt.Println("  -config, -preset              # 配置来源")
	fmt.Println("  -log, -log-dir, -auto-log     # 日志参数")
	fmt.Println()
	fmt.Println("配置文件（持久化配置）：")
	fmt.Println("  discovery.host_ttl            # 主机存活窗口")
	fmt.Println("  discovery.friend_scan_interval # 好友扫描间隔")
	fmt.Println("  signals.dedup_window          # 信号去重窗口")
	fmt.Println("  session.max_peers             # 同行上限")
	fmt.Println("  node.tick_interval            # 内部节拍间隔")
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  GTNET_DISCOVERY_HOST_TTL            主机存活窗口")
	fmt.Println("  GTNET_DISCOVERY_FRIEND_SCAN_INTERVAL 好友扫描间隔")
	fmt.Println("  GTNET_SIGNALS_DEDUP_WINDOW          信号去重窗口")
	fmt.Println("  GTNET_SESSION_MAX_PEERS             同行上限")
	fmt.Println("  GTNET_NODE_TICK_INTERVAL            内部节拍间隔")
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("预设配置")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("  lan       - 局域网优化，快扫描短窗口")
	fmt.Println("  relaxed   - 宽松网络，长存活窗口")
	fmt.Println("  minimal   - 最小配置，关闭自动扫描，仅用于测试")
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("使用示例")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("托管一局（好友可在游戏内看到并加入）:")
	fmt.Println()
	fmt.Println("  gtnet -relay ws://relay.example.com:7430/ws -name Boss -host")
	fmt.Println()
	fmt.Println("发现并自动加入最优主机:")
	fmt.Println()
	fmt.Println("  gtnet -relay ws://relay.example.com:7430/ws -name Gunslinger -auto-join")
	fmt.Println()
	fmt.Println("直接加入指定主机:")
	fmt.Println()
	fmt.Println("  gtnet -relay ws://... -join 76561198000000001")
	fmt.Println()
	fmt.Println("本机双节点演示（另开一个终端）:")
	fmt.Println()
	fmt.Println("  gtnet-relay -addr :7430")
	fmt.Println("  gtnet -relay ws://127.0.0.1:7430/ws -name Boss -host")
	fmt.Println("  gtnet -relay ws://127.0.0.1:7430/ws -name Gunslinger -auto-join")
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("配置文件示例 (config.json)")
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println(`  {`)
	fmt.Println(`    "discovery": {`)
	fmt.Println(`      "host_ttl": "30s",`)
	fmt.Println(`      "friend_scan_interval": "1s"`)
	fmt.Println(`    },`)
	fmt.Println(`    "signals": {`)
	fmt.Println(`      "dedup_window": "5s"`)
	fmt.Println(`    },`)
	fmt.Println(`    "session": {`)
	fmt.Println(`      "max_peers": 3`)
	fmt.Println(`    }`)
	fmt.Println(`  }`)
	fmt.Println()
}
