// xidgen 是 xid 库的命令行工具，用于生成、解析和排序 ID。
//
// 用法:
//
//	xidgen [命令] [命令参数]
//
// 命令:
//
//	new            生成 ID（默认命令）
//	  --count, -n        生成数量 (默认: 1)
//	  --machine-id, -m   显式指定主机标识字符串
//	  --process-id, -p   显式指定进程标识 (0-65535)
//	  --time, -t         以指定时间戳生成 (RFC3339)
//	inspect <id>...    解析 ID 并打印各字段
//	sort               从标准输入读取 ID，按生成时间排序输出
//	help               显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败（如标准输入中的非法 ID）
//	2: 参数错误（非法 flag、非法 ID 参数、未知命令等）
//
// 示例:
//
//	xidgen                                # 生成 1 个 ID
//	xidgen new -n 10                      # 生成 10 个 ID
//	xidgen new -m node-42 -p 7            # 固定机器/进程标识生成
//	xidgen inspect 9m4e2mr0ui3e8a215n4g   # 解析并打印字段
//	xidgen sort < ids.txt                 # 排序
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:           "xidgen",
		Usage:          "生成、解析和排序 xid 标识符",
		Version:        fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Commands:       createCommands(),
		DefaultCommand: "new",
		Authors: []any{
			"XKit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	app := createApp()

	if err := app.Run(context.Background(), args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag、未知命令）同样
		// 返回退出码 2，与文档契约保持一致
		if _, ok := err.(cli.ExitCoder); ok {
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
