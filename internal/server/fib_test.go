package server

import (
	"errors"
	"testing"
)

func TestFibonacci(t *testing.T) {
	// 反復計算による期待値
	want := make([]uint64, 31)
	want[1] = 1
	for i := 2; i < len(want); i++ {
		want[i] = want[i-1] + want[i-2]
	}

	for n, expected := range want {
		if got := Fibonacci(uint32(n)); got != expected {
			t.Errorf("Fibonacci(%d) = %d, want %d", n, got, expected)
		}
	}
}

func TestParseFibArgument(t *testing.T) {
	valid := []struct {
		body string
		want uint32
	}{
		{"0", 0},
		{"10", 10},
		{"  25\n", 25},
		{"\t7\r\n", 7},
		{" 12　", 12}, // Unicode の空白も取り除く
		{"007", 7},
		{"4294967295", 4294967295},
		{"+10", 10},
		{" +7\n", 7},
	}
	for _, tc := range valid {
		t.Run(tc.body, func(t *testing.T) {
			got, err := ParseFibArgument([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}

	invalid := []string{
		"",
		"   ",
		"abc",
		"-1",
		"1.5",
		"1e3",
		"12 34",
		"4294967296",
		"0x10",
		"+",
		"++5",
		"+-5",
		"+ 5",
		"\xff\xfe",
		"1\xff",
	}
	for _, body := range invalid {
		t.Run("invalid "+body, func(t *testing.T) {
			_, err := ParseFibArgument([]byte(body))
			if !errors.Is(err, ErrInvalidFibArgument) {
				t.Errorf("expected ErrInvalidFibArgument, got %v", err)
			}
		})
	}
}
