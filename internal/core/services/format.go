package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/maps"
)

// Markdown labels for rendered violation records. The vocabulary
// matches what the sources themselves use, so a reader sees the same
// wording the official portals show.
const (
	labelPlate     = "*Biển kiểm soát:*"
	labelOwner     = "*Chủ sở hữu:*"
	labelClass     = "*Loại phương tiện:*"
	labelColor     = "*Màu biển:*"
	labelTime      = "*Thời gian vi phạm:*"
	labelLocation  = "*Địa điểm vi phạm:*"
	labelViolation = "*Hành vi vi phạm:*"
	labelStatus    = "*Trạng thái:*"
	labelUnit      = "*Đơn vị phát hiện vi phạm:*"
	labelOffices   = "*Nơi giải quyết vụ việc:*"
	labelMap       = "*Vị trí:*"
)

// FormatLookup renders every provider outcome of one lookup run into
// Markdown messages ready for dispatch, in configured provider order.
func FormatLookup(result domain.LookupResult) []string {
	var messages []string
	for _, res := range result.Results {
		messages = append(messages, FormatProviderResult(result.Plate, res)...)
	}
	return messages
}

// FormatProviderResult renders one provider outcome: a header telling
// "found n", "no violations" and "could not check" apart, then one
// message per record.
func FormatProviderResult(plate domain.PlateInfo, res domain.ProviderResult) []string {
	messages := []string{formatHeader(plate, res)}
	for i, record := range res.Records {
		messages = append(messages, FormatRecord(plate, record, i+1, len(res.Records)))
	}
	return messages
}

func formatHeader(plate domain.PlateInfo, res domain.ProviderResult) string {
	target := plate.NormalizedPlate()
	switch res.Status {
	case domain.StatusFound:
		return fmt.Sprintf("*[%s]* %s: %d vi phạm", res.Provider, target, len(res.Records))
	case domain.StatusNotFound:
		return fmt.Sprintf("*[%s]* %s: không có vi phạm", res.Provider, target)
	default:
		return fmt.Sprintf("*[%s]* %s: tra cứu thất bại (%s)", res.Provider, target, res.Failure.Kind)
	}
}

// FormatRecord renders one violation as a Markdown summary with stable
// labeled lines. ordinal and total place the record within its provider
// result ("Vi phạm 2/3").
func FormatRecord(plate domain.PlateInfo, record domain.ViolationRecord, ordinal, total int) string {
	lines := []string{
		fmt.Sprintf("*Vi phạm %d/%d*", ordinal, total),
		labelPlate + " " + record.Plate,
	}
	if plate.Owner != "" {
		lines = append(lines, labelOwner+" "+plate.Owner)
	}
	lines = append(lines,
		labelClass+" "+record.VehicleClass.DisplayName(),
		labelColor+" "+record.PlateColor,
		labelTime+" "+record.Time.Format(domain.ViolationTimeLayout),
		labelLocation+" "+record.Location,
	)
	if record.Violation != "" {
		lines = append(lines, labelViolation+" "+record.Violation)
	}
	lines = append(lines,
		labelStatus+" "+statusLine(record.Resolved),
		labelUnit+" "+record.EnforcementUnit,
	)
	if len(record.ResolutionOffices) > 0 {
		lines = append(lines, labelOffices)
		lines = append(lines, record.ResolutionOffices...)
	}
	if link := maps.SearchURL(record.Location); link != "" {
		lines = append(lines, fmt.Sprintf("%s [Google Maps](%s)", labelMap, link))
	}
	return strings.Join(lines, "\n")
}

func statusLine(resolved bool) string {
	if resolved {
		return domain.StatusResolved
	}
	return domain.StatusUnresolved
}

// Summary holds the fields a rendered record can be parsed back out of.
type Summary struct {
	// Plate is the canonical plate the record was rendered for.
	Plate string
	// Time is the violation timestamp.
	Time time.Time
	// Resolved reports whether the violation was already penalized.
	Resolved bool
}

// ParseSummary extracts the plate, violation time and resolution state
// from a message rendered by FormatRecord. Messages missing any of the
// three lines are rejected; header messages are not summaries.
func ParseSummary(message string) (Summary, error) {
	var (
		sum                             Summary
		havePlate, haveTime, haveStatus bool
	)
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelPlate):
			sum.Plate = strings.TrimSpace(strings.TrimPrefix(line, labelPlate))
			havePlate = true
		case strings.HasPrefix(line, labelTime):
			value := strings.TrimSpace(strings.TrimPrefix(line, labelTime))
			parsed, err := time.Parse(domain.ViolationTimeLayout, value)
			if err != nil {
				return Summary{}, fmt.Errorf("%w: violation time %q", domain.ErrInvalidInput, value)
			}
			sum.Time = parsed
			haveTime = true
		case strings.HasPrefix(line, labelStatus):
			sum.Resolved = strings.TrimSpace(strings.TrimPrefix(line, labelStatus)) == domain.StatusResolved
			haveStatus = true
		}
	}
	if !havePlate || !haveTime || !haveStatus {
		return Summary{}, fmt.Errorf("%w: not a violation summary", domain.ErrInvalidInput)
	}
	return sum, nil
}
