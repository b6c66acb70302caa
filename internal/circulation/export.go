package circulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"library-backend/internal/platform/apierr"
)

type Encoding string

const (
	EncodingUTF8     Encoding = "utf-8"
	EncodingUTF16    Encoding = "utf-16"
	EncodingShiftJIS Encoding = "shift_jis"
)

// ParseEncoding は ?encoding= の値を解釈する．空なら utf-8
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16", "utf16", "utf-16le":
		return EncodingUTF16, nil
	case "shift_jis", "sjis", "cp932":
		return EncodingShiftJIS, nil
	}
	return "", apierr.ErrInvalid(fmt.Sprintf("unsupported encoding %q", s))
}

// Excel が文字コードを判別できるよう UTF-8 / UTF-16 は BOM 付き
func (e Encoding) encoder() *encoding.Encoder {
	switch e {
	case EncodingUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	case EncodingShiftJIS:
		return japanese.ShiftJIS.NewEncoder() // Windowsの「ANSI（CP932）」相当
	default:
		return unicode.UTF8BOM.NewEncoder()
	}
}

func (e Encoding) ContentType() string {
	return "text/csv; charset=" + string(e)
}

var checkedOutHeader = []string{"loan_id", "book_title", "member_name", "loan_date", "return_date", "availability_status"}

// WriteCheckedOutCSV は loans を指定の文字コードで CSV に書き出す．
// shift_jis で表せない文字があればエラーになる
func WriteCheckedOutCSV(dst io.Writer, enc Encoding, loans []CheckedOutLoan) error {
	tw := transform.NewWriter(dst, enc.encoder())
	w := csv.NewWriter(tw)
	if enc == EncodingUTF16 {
		w.UseCRLF = true
	}

	if err := w.Write(checkedOutHeader); err != nil {
		return err
	}
	for _, l := range loans {
		record := []string{
			strconv.FormatInt(l.LoanID, 10),
			l.BookTitle,
			l.MemberName,
			l.LoanDate.Format(time.DateOnly),
			l.ReturnDate.Format(time.DateOnly),
			string(l.AvailabilityStatus),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write loan %d: %w", l.LoanID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return tw.Close()
}
