package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidFibArgument はフィボナッチの引数が非負整数として解釈できない場合のエラー
var ErrInvalidFibArgument = errors.New("fib: invalid argument")

// ParseFibArgument はリクエストボディを引数 n として解釈する
// 不正なUTF-8は置換文字に置き換え、前後の空白を取り除いてから10進数として読む
// 数字が続く場合に限り先頭の '+' を一つだけ許す
func ParseFibArgument(body []byte) (uint32, error) {
	s := strings.TrimSpace(strings.ToValidUTF8(string(body), string(utf8.RuneError)))

	digits := s
	if len(digits) > 1 && digits[0] == '+' && digits[1] >= '0' && digits[1] <= '9' {
		digits = digits[1:]
	}

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFibArgument, s)
	}
	return uint32(n), nil
}

// Fibonacci は素朴な再帰で F(n) を計算する
// 指数時間かかるのは意図どおり (CPU負荷のデモ用エンドポイント)
func Fibonacci(n uint32) uint64 {
	if n == 0 {
		return 0
	} else if n == 1 {
		return 1
	}
	return Fibonacci(n-1) + Fibonacci(n-2)
}
