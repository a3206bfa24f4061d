package report

import (
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Format は出力形式
type Format string

const (
	FormatAuto     Format = "auto"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats は指定可能な出力形式の一覧
var Formats = []Format{FormatAuto, FormatText, FormatMarkdown, FormatJSON}

// ParseFormat は名前から出力形式を返す。空文字列は auto とみなす
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case "md":
		return FormatMarkdown, nil
	case FormatAuto, FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", errors.NewValueError("ParseFormat", "unknown output format "+name+" (want auto, text, markdown or json)")
}

// Resolve は auto を具体的な形式に解決する
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return FormatText
	}
	return FormatMarkdown
}

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency は金額を米ドル表記（桁区切りあり、小数2桁）で返す
//
//	FormatCurrency(228621.335) // "$228,621.34"
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return usd.Sprint(v)
	}
	// 表示上の -0.00 を避けるため、丸めた後に符号を判定する
	cents := math.Round(v * 100)
	if cents < 0 {
		return "-$" + usd.Sprintf("%.2f", -cents/100)
	}
	return "$" + usd.Sprintf("%.2f", cents/100+0)
}
