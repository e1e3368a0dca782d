package csgt

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

// Form-group positions inside one violation entry. Groups 9 and up hold
// the resolution offices, one per group.
const (
	groupPlate = iota + 1
	groupPlateColor
	groupVehicleClass
	groupTime
	groupLocation
	groupViolation
	groupStatus
	groupEnforcementUnit
	groupFirstOffice
)

// parse extracts violations from the result page. The results live in
// div#bodyPrint123, one entry per <hr>-separated run of form-group
// divs. A container without any form-group is a clean plate; an entry
// with missing required fields is a malformed page.
func parse(page string) ([]domain.ViolationRecord, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrMalformedResponse, err)
	}

	container := providers.FindByID(doc, "bodyPrint123")
	if container == nil {
		return nil, fmt.Errorf("%w: no result container in page", domain.ErrMalformedResponse)
	}

	set := domain.NewRecordSet()
	for _, groups := range splitEntries(container) {
		record, err := entry(groups)
		if err != nil {
			return nil, err
		}
		set.Add(record)
	}
	return set.Records(), nil
}

// splitEntries cuts the container's children at each <hr> separator and
// collects the form-group divs of every segment.
func splitEntries(container *html.Node) [][]*html.Node {
	var entries [][]*html.Node
	var current []*html.Node
	flush := func() {
		if len(current) > 0 {
			entries = append(entries, current)
			current = nil
		}
	}

	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch {
		case c.Data == "hr":
			flush()
		case providers.HasClass(c, "form-group"):
			current = append(current, c)
		default:
			current = append(current, providers.FindAll(c, providers.ElementWithClass("div", "form-group"))...)
		}
	}
	flush()
	return entries
}

// entry reads one violation from its form-group divs. Values sit in the
// second inner div of each group; office groups contribute their whole
// text.
func entry(groups []*html.Node) (domain.ViolationRecord, error) {
	value := func(n int) string {
		if n > len(groups) {
			return ""
		}
		for _, row := range providers.ChildElements(groups[n-1]) {
			if row.Data != "div" {
				continue
			}
			cols := providers.ChildElements(row)
			if len(cols) >= 2 && cols[1].Data == "div" {
				return providers.Text(cols[1])
			}
		}
		return ""
	}

	plate := value(groupPlate)
	color := value(groupPlateColor)
	when := value(groupTime)
	location := value(groupLocation)
	violation := value(groupViolation)
	status := value(groupStatus)
	unit := value(groupEnforcementUnit)

	var offices []string
	for n := groupFirstOffice; n <= len(groups); n++ {
		if office := providers.Text(groups[n-1]); office != "" {
			offices = append(offices, office)
		}
	}

	if plate == "" || color == "" || when == "" || location == "" ||
		violation == "" || status == "" || unit == "" || len(offices) == 0 {
		return domain.ViolationRecord{}, fmt.Errorf("%w: violation entry misses required fields", domain.ErrMalformedResponse)
	}

	class, err := domain.ParseVehicleClass(value(groupVehicleClass))
	if err != nil {
		return domain.ViolationRecord{}, fmt.Errorf("%w: vehicle class: %v", domain.ErrMalformedResponse, err)
	}
	parsed, err := time.Parse(domain.ViolationTimeLayout, when)
	if err != nil {
		return domain.ViolationRecord{}, fmt.Errorf("%w: violation time %q", domain.ErrMalformedResponse, when)
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
		ResolutionOffices: offices,
	}, nil
}
