package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/mapleleads/directory-web/internal/domain"
)

// exportPageSize is the page size used when streaming a full result set.
const exportPageSize = domain.MaxLimit

// ExportColumns returns the list of available export columns.
func (s *SearchService) ExportColumns() []string {
	return []string{
		"company_name",
		"industry",
		"city",
		"postal_code",
		"address",
		"phone",
		"email",
		"website",
		"rating",
		"review_count",
	}
}

// ExportCSV streams the full result set for the given filters to CSV.
func (s *SearchService) ExportCSV(ctx context.Context, w io.Writer, filters domain.SearchFilters, columns []string) error {
	if len(columns) == 0 {
		columns = s.ExportColumns()
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	return s.stream(ctx, filters, func(svc *domain.Service) error {
		return csvWriter.Write(serviceToRow(svc, columns))
	})
}

// ExportXLSX streams the full result set for the given filters to XLSX.
func (s *SearchService) ExportXLSX(ctx context.Context, w io.Writer, filters domain.SearchFilters, columns []string) error {
	if len(columns) == 0 {
		columns = s.ExportColumns()
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Services")
	if err != nil {
		return fmt.Errorf("create xlsx sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, col := range columns {
		headerRow.AddCell().SetString(col)
	}

	err = s.stream(ctx, filters, func(svc *domain.Service) error {
		row := sheet.AddRow()
		for _, val := range serviceToRow(svc, columns) {
			row.AddCell().SetString(val)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return wb.Write(w)
}

// stream walks every result page for the filters and feeds each service
// to fn. The remote API owns the data, so export pages through the same
// search endpoint the listing uses.
func (s *SearchService) stream(ctx context.Context, filters domain.SearchFilters, fn func(*domain.Service) error) error {
	f := filters.Normalized()
	f.Limit = exportPageSize
	f.Page = 1

	for {
		result, err := s.api.Search(ctx, f)
		if err != nil {
			return fmt.Errorf("export page %d: %w", f.Page, err)
		}

		for i := range result.Services {
			if err := fn(&result.Services[i]); err != nil {
				return err
			}
		}

		if f.Page >= result.TotalPages || len(result.Services) == 0 {
			return nil
		}

		f = f.WithPage(f.Page + 1)
	}
}

// serviceToRow converts a service to a row based on selected columns.
func serviceToRow(svc *domain.Service, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = serviceColumnValue(svc, col)
	}
	return row
}

func serviceColumnValue(svc *domain.Service, column string) string {
	switch column {
	case "company_name":
		return svc.CompanyName
	case "industry":
		return svc.Industry
	case "city":
		return svc.City
	case "postal_code":
		return svc.PostalCode
	case "address":
		return svc.Address
	case "phone":
		return svc.Phone
	case "email":
		return svc.Email
	case "website":
		if svc.Website != nil {
			return *svc.Website
		}
	case "rating":
		return strconv.FormatFloat(svc.Rating, 'f', 1, 64)
	case "review_count":
		return strconv.Itoa(svc.ReviewCount)
	}
	return ""
}
