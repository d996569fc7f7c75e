package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetAmount(t *testing.T) {
	var out bytes.Buffer
	got, err := GetAmount(rdr("42.50\n"), "Amount", &out)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("got %s", got)
	}
}

func TestGetAmount_Invalid(t *testing.T) {
	var out bytes.Buffer
	if _, err := GetAmount(rdr("lots\n"), "Amount", &out); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	if _, err := GetSecret("Secret", &out); err == nil {
		t.Fatal("expected error")
	}
}
