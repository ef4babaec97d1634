package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xid"
)

// usageError 表示参数错误，main 将其映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createNewCommand(),
		createInspectCommand(),
		createSortCommand(),
	}
}

// createNewCommand 创建 new 子命令（生成 ID）。
func createNewCommand() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "生成 ID，每行一个",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "生成数量",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "machine-id",
				Aliases: []string{"m"},
				Usage:   "显式指定主机标识字符串（默认走环境回退策略）",
			},
			&cli.IntFlag{
				Name:    "process-id",
				Aliases: []string{"p"},
				Usage:   "显式指定进程标识 (0-65535)",
			},
			&cli.StringFlag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "以指定时间戳生成 (RFC3339，默认当前时间)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := make([]xid.Option, 0, 2)
			if cmd.IsSet("machine-id") {
				opts = append(opts, xid.WithMachineID(cmd.String("machine-id")))
			}
			if cmd.IsSet("process-id") {
				pid := cmd.Int("process-id")
				if pid < 0 || pid > 65535 {
					return usageErrorf("process-id 超出范围 [0, 65535]: %d", pid)
				}
				opts = append(opts, xid.WithProcessID(uint16(pid)))
			}
			var at time.Time
			if cmd.IsSet("time") {
				t, err := time.Parse(time.RFC3339, cmd.String("time"))
				if err != nil {
					return usageErrorf("非法时间戳 %q: %v", cmd.String("time"), err)
				}
				at = t
			}
			return cmdNew(os.Stdout, cmd.Int("count"), at, opts...)
		},
	}
}

// createInspectCommand 创建 inspect 子命令（解析 ID 并打印字段）。
func createInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "解析 ID 并打印时间戳、机器、进程、计数器字段",
		ArgsUsage: "<id>...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdInspect(os.Stdout, cmd.Args().Slice())
		},
	}
}

// createSortCommand 创建 sort 子命令（从标准输入排序）。
func createSortCommand() *cli.Command {
	return &cli.Command{
		Name:  "sort",
		Usage: "从标准输入读取 ID（每行一个），按生成时间升序输出",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdSort(os.Stdout, os.Stdin)
		},
	}
}

// =============================================================================
// 命令实现
// =============================================================================

// cmdNew 生成 count 个 ID。at 为零值时使用当前时间。
func cmdNew(out io.Writer, count int, at time.Time, opts ...xid.Option) error {
	if count < 1 {
		return usageErrorf("count 必须为正数: %d", count)
	}
	gen := xid.NewGenerator(opts...)
	w := bufio.NewWriter(out)
	for i := 0; i < count; i++ {
		if at.IsZero() {
			fmt.Fprintln(w, gen.FastID())
		} else {
			fmt.Fprintln(w, gen.NewWithTime(at))
		}
	}
	return w.Flush()
}

func cmdInspect(out io.Writer, args []string) error {
	if len(args) == 0 {
		return usageErrorf("缺少 ID 参数")
	}
	for i, arg := range args {
		id, err := xid.Parse(arg)
		if err != nil {
			return usageErrorf("非法 ID %q: %v", arg, err)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "id:      %s\n", id)
		fmt.Fprintf(out, "time:    %s\n", id.Time().UTC().Format(time.RFC3339))
		fmt.Fprintf(out, "machine: %x\n", id.Machine())
		fmt.Fprintf(out, "pid:     %d\n", id.Pid())
		fmt.Fprintf(out, "counter: %d\n", id.Counter())
	}
	return nil
}

func cmdSort(out io.Writer, in io.Reader) error {
	var ids []xid.ID
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		id, err := xid.Parse(text)
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", line, err)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取标准输入: %w", err)
	}

	xid.Sort(ids)
	w := bufio.NewWriter(out)
	for _, id := range ids {
		fmt.Fprintln(w, id.String())
	}
	return w.Flush()
}
