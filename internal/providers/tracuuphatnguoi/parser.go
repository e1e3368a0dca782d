package tracuuphatnguoi

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

// Value cell positions inside one violation table. Cell 2 echoes the
// vehicle class back and is not read; the requested class is
// authoritative.
const (
	cellPlate = iota
	cellPlateColor
	cellVehicleClass
	cellTime
	cellLocation
	cellViolation
	cellStatus
	cellEnforcementUnit
	cellFirstOffice
)

// parse extracts violations from the html fragment of a lookup
// response. Each table.css_table is one violation whose values sit in
// its td.row_right cells, in fixed order. No tables means a clean
// plate.
func parse(fragment string, plate domain.PlateInfo) ([]domain.ViolationRecord, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrMalformedResponse, err)
	}

	set := domain.NewRecordSet()
	for _, table := range providers.FindAll(doc, providers.ElementWithClass("table", "css_table")) {
		var cells []string
		for _, row := range providers.FindAll(table, providers.Element("tr")) {
			if td := providers.Find(row, providers.ElementWithClass("td", "row_right")); td != nil {
				cells = append(cells, providers.Text(td))
			}
		}
		if len(cells) < cellFirstOffice {
			return nil, fmt.Errorf("%w: violation table has %d value cells", domain.ErrMalformedResponse, len(cells))
		}

		when, err := time.Parse(domain.ViolationTimeLayout, cells[cellTime])
		if err != nil {
			return nil, fmt.Errorf("%w: violation time %q", domain.ErrMalformedResponse, cells[cellTime])
		}

		set.Add(domain.ViolationRecord{
			Plate:             domain.NormalizePlate(cells[cellPlate]),
			PlateColor:        cells[cellPlateColor],
			VehicleClass:      plate.VehicleClass,
			Time:              when,
			Location:          cells[cellLocation],
			Violation:         cells[cellViolation],
			Resolved:          providers.Resolved(cells[cellStatus]),
			EnforcementUnit:   cells[cellEnforcementUnit],
			ResolutionOffices: cells[cellFirstOffice:],
		})
	}
	return set.Records(), nil
}
