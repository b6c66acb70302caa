package circulation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"library-backend/internal/catalog"
	"library-backend/internal/platform/apierr"
)

func sampleLoans() []CheckedOutLoan {
	return []CheckedOutLoan{{
		Loan: Loan{
			LoanID:     7,
			ReceiptID:  3,
			LoanDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			ReturnDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			BookTitle:  "吾輩は猫である, 上",
			MemberName: "夏目 漱石",
		},
		AvailabilityStatus: catalog.StatusCheckedOut,
	}}
}

const wantCSV = "loan_id,book_title,member_name,loan_date,return_date,availability_status\n" +
	"7,\"吾輩は猫である, 上\",夏目 漱石,2026-03-01,2026-03-15,CheckedOut\n"

func TestParseEncoding(t *testing.T) {
	cases := map[string]Encoding{
		"":          EncodingUTF8,
		"UTF-8":     EncodingUTF8,
		"utf16":     EncodingUTF16,
		"Shift_JIS": EncodingShiftJIS,
		"cp932":     EncodingShiftJIS,
	}
	for in, want := range cases {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEncoding("latin1")
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestWriteCheckedOutCSV_UTF8(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCheckedOutCSV(&b, EncodingUTF8, sampleLoans()))
	assert.Equal(t, "\ufeff"+wantCSV, b.String())
}

func TestWriteCheckedOutCSV_ShiftJIS(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCheckedOutCSV(&b, EncodingShiftJIS, sampleLoans()))

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, wantCSV, string(decoded))
}

func TestWriteCheckedOutCSV_UTF16(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCheckedOutCSV(&b, EncodingUTF16, sampleLoans()))

	raw := b.Bytes()
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0xFF, 0xFE}, raw[:2])

	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
	require.NoError(t, err)
	want := bytes.ReplaceAll([]byte(wantCSV), []byte("\n"), []byte("\r\n"))
	assert.Equal(t, string(want), string(decoded))
}

func TestWriteCheckedOutCSV_ShiftJISUnrepresentable(t *testing.T) {
	loans := sampleLoans()
	loans[0].BookTitle = "Emoji 📚"
	var b bytes.Buffer
	assert.Error(t, WriteCheckedOutCSV(&b, EncodingShiftJIS, loans))
}
