package employees

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"KINTAI-backend/internal/platform/apierr"
)

const maxImportRows = 5000

// 取込シートの必須列（1行目ヘッダ）
var importColumns = []string{"name", "email", "password"}

// Import: Excel（.xlsx / .xls）から社員を一括登録する。
// 各行は Register を通すので、単票登録と同じルールが効く。行単位で失敗しても続行。
func (s *Service) Import(ctx context.Context, r io.Reader, filename string) (ImportResult, error) {
	rows, err := readRowsFromSpreadsheet(r, filename)
	if err != nil {
		return ImportResult{}, apierr.Invalid(err.Error())
	}
	if len(rows)-1 > maxImportRows {
		return ImportResult{}, apierr.Newf(apierr.CodeInvalidArgument, "too many rows (max %d)", maxImportRows)
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[normalizeHeader(h)] = i
	}
	for _, col := range importColumns {
		if _, ok := header[col]; !ok {
			return ImportResult{}, apierr.Newf(apierr.CodeInvalidArgument, "missing required column: %s", col)
		}
	}
	roleIdx := -1
	if idx, ok := header["role"]; ok {
		roleIdx = idx
	}

	res := ImportResult{Rows: make([]ImportRowResult, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		pw := cellValue(row, header["password"])
		req := RegisterRequest{
			Name:            cellValue(row, header["name"]),
			Email:           cellValue(row, header["email"]),
			Password:        pw,
			ConfirmPassword: pw,
			Role:            cellValue(row, roleIdx),
		}
		line := ImportRowResult{Row: i + 2, Email: NormalizeEmail(req.Email)}

		e, err := s.Register(ctx, req)
		if err != nil {
			if apierr.CodeOf(err) == apierr.CodeInternal {
				// DB 障害などは途中でも打ち切る
				return res, err
			}
			line.Error = err.Error()
			res.Failed++
		} else {
			line.Employee = &e
			res.Created++
		}
		res.Rows = append(res.Rows, line)
	}
	log.Printf("[INFO] employee import %q: created=%d failed=%d", filename, res.Created, res.Failed)
	return res, nil
}

func readRowsFromSpreadsheet(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("cannot read xls: %v", err)
		}
		if wb.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := wb.ReadAllCells(maxImportRows + 1)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("cannot read xlsx: %v", err)
		}
		defer func() { _ = f.Close() }()

		sheet := f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .xlsx or .xls)", filepath.Ext(filename))
	}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
