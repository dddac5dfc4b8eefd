// Package roster parses operator-supplied roster CSV files into
// participants. Files come from desktop spreadsheet exports, so both
// UTF-8 (with or without BOM) and EUC-KR encodings are accepted.
package roster

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Header names recognized in the first row. Korean aliases match the
// spreadsheet templates operators actually use.
var columnAliases = map[string][]string{
	"id":     {"id"},
	"name":   {"name", "이름", "성명"},
	"phone":  {"phone", "전화", "전화번호", "연락처"},
	"team":   {"team", "팀", "조"},
	"gender": {"gender", "성별"},
}

// Parser reads roster CSVs.
type Parser struct {
	encoding string
}

// ParserOption applies a configuration option to the Parser.
type ParserOption func(*Parser)

// WithEncoding sets the expected charset: "utf-8" (default) or "euc-kr".
func WithEncoding(enc string) ParserOption {
	return func(p *Parser) {
		if enc != "" {
			p.encoding = strings.ToLower(enc)
		}
	}
}

// NewParser creates a Parser, applying any options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{encoding: "utf-8"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the CSV and returns participants. Rows missing a name are
// skipped; rows missing an id get a fresh one.
func (p *Parser) Parse(r io.Reader) ([]model.Participant, error) {
	if p.encoding == "euc-kr" {
		r = transform.NewReader(r, korean.EUCKR.NewDecoder())
	} else {
		r = skipBOM(r)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var out []model.Participant
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		name := field(record, cols, "name")
		if name == "" {
			continue
		}
		id := field(record, cols, "id")
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, model.Participant{
			ID:     id,
			Name:   name,
			Phone:  field(record, cols, "phone"),
			Team:   field(record, cols, "team"),
			Gender: normalizeGender(field(record, cols, "gender")),
		})
	}
	return out, nil
}

func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		for key, aliases := range columnAliases {
			for _, alias := range aliases {
				if h == alias {
					index[key] = i
				}
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("roster header missing a name column: %v", header)
	}
	return index, nil
}

func field(record []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func normalizeGender(g string) string {
	switch strings.ToUpper(g) {
	case "M", "남", "남자":
		return "M"
	case "F", "여", "여자":
		return "F"
	default:
		return ""
	}
}

// skipBOM drops a UTF-8 byte order mark if present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peeked, err := br.Peek(3)
	if err == nil && peeked[0] == 0xEF && peeked[1] == 0xBB && peeked[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
