package phatnguoi

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

// officeStartRe marks the start of one entry in the numbered
// resolution-office blob ("1. Đội ... 2. Công an ...").
var officeStartRe = regexp.MustCompile(`\d\.`)

// Row positions inside one violation table. The value sits in the
// second cell of each row.
const (
	rowPlate = iota + 1
	rowPlateColor
	rowVehicleClass
	rowTime
	rowLocation
	rowViolation
	rowStatus
	rowEnforcementUnit
	rowResolutionOffices
)

type parser struct {
	plate domain.PlateInfo
	log   zerolog.Logger
}

// parse extracts violations from the response fragment. Each <tbody> is
// one violation; a table missing required cells is skipped rather than
// failing the lookup. A fragment without any table is malformed.
func (p parser) parse(body string) ([]domain.ViolationRecord, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrMalformedResponse, err)
	}

	tables := providers.FindAll(doc, providers.Element("tbody"))
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no violation table in response", domain.ErrMalformedResponse)
	}

	set := domain.NewRecordSet()
	for _, table := range tables {
		record, ok, err := p.entry(table)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		set.Add(record)
	}
	return set.Records(), nil
}

// entry reads one violation table. ok is false when a required cell is
// missing; an unreadable vehicle class fails the whole parse.
func (p parser) entry(table *html.Node) (domain.ViolationRecord, bool, error) {
	rows := providers.FindAll(table, providers.Element("tr"))
	cell := func(n int) string {
		if n > len(rows) {
			return ""
		}
		cells := providers.FindAll(rows[n-1], providers.Element("td"))
		if len(cells) < 2 {
			return ""
		}
		return providers.Text(cells[1])
	}

	plate := cell(rowPlate)
	color := cell(rowPlateColor)
	when := cell(rowTime)
	location := cell(rowLocation)
	violation := cell(rowViolation)
	status := cell(rowStatus)
	unit := cell(rowEnforcementUnit)
	offices := cell(rowResolutionOffices)
	if plate == "" || color == "" || when == "" || location == "" ||
		violation == "" || status == "" || unit == "" || offices == "" {
		p.log.Warn().
			Str("plate", p.plate.NormalizedPlate()).
			Msg("skipping violation table with missing cells")
		return domain.ViolationRecord{}, false, nil
	}

	class, err := domain.ParseVehicleClass(cell(rowVehicleClass))
	if err != nil {
		return domain.ViolationRecord{}, false, fmt.Errorf("%w: vehicle class: %v", domain.ErrMalformedResponse, err)
	}
	parsed, err := time.Parse(domain.ViolationTimeLayout, when)
	if err != nil {
		return domain.ViolationRecord{}, false, fmt.Errorf("%w: violation time %q", domain.ErrMalformedResponse, when)
	}

	return domain.ViolationRecord{
		Plate:             domain.NormalizePlate(plate),
		PlateColor:        color,
		VehicleClass:      class,
		Time:              parsed,
		Location:          location,
		Violation:         violation,
		Resolved:          providers.Resolved(status),
		EnforcementUnit:   unit,
		ResolutionOffices: splitOffices(offices),
	}, true, nil
}

// splitOffices cuts the numbered blob into its entries, keeping each
// entry's numeric prefix the way the site renders it.
func splitOffices(blob string) []string {
	starts := officeStartRe.FindAllStringIndex(blob, -1)
	var out []string
	for i, start := range starts {
		end := len(blob)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if office := strings.TrimSpace(blob[start[0]:end]); office != "" {
			out = append(out, office)
		}
	}
	return out
}
