package phatnguoi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

const violationTable = `
<table class="table table-bordered">
  <tbody>
    <tr><td>Biển kiểm soát</td><td>98A-123.45</td></tr>
    <tr><td>Màu biển</td><td>Nền mầu trắng, chữ và số màu đen</td></tr>
    <tr><td>Loại phương tiện</td><td>Ô tô</td></tr>
    <tr><td>Thời gian vi phạm</td><td>20:05, 28/02/2025</td></tr>
    <tr><td>Địa điểm vi phạm</td><td>Quốc lộ 1A - Bắc Giang</td></tr>
    <tr><td>Hành vi vi phạm</td><td>Điều khiển xe chạy quá tốc độ quy định</td></tr>
    <tr><td>Trạng thái</td><td>Chưa xử phạt</td></tr>
    <tr><td>Đơn vị phát hiện vi phạm</td><td>Đội CSGT đường bộ số 2</td></tr>
    <tr><td>Nơi giải quyết vụ việc</td><td>1. Đội CSGT đường bộ số 2, Phòng CSGT Bắc Giang 2. Công an huyện Việt Yên</td></tr>
  </tbody>
</table>`

const resolvedTable = `
<table class="table table-bordered">
  <tbody>
    <tr><td>Biển kiểm soát</td><td>98A-123.45</td></tr>
    <tr><td>Màu biển</td><td>Nền mầu trắng, chữ và số màu đen</td></tr>
    <tr><td>Loại phương tiện</td><td>Ô tô</td></tr>
    <tr><td>Thời gian vi phạm</td><td>09:30, 15/01/2025</td></tr>
    <tr><td>Địa điểm vi phạm</td><td>Ngã tư Kế - TP Bắc Giang</td></tr>
    <tr><td>Hành vi vi phạm</td><td>Không chấp hành hiệu lệnh của đèn tín hiệu giao thông</td></tr>
    <tr><td>Trạng thái</td><td>Đã xử phạt</td></tr>
    <tr><td>Đơn vị phát hiện vi phạm</td><td>Đội CSGT TP Bắc Giang</td></tr>
    <tr><td>Nơi giải quyết vụ việc</td><td>1. Đội CSGT TP Bắc Giang</td></tr>
  </tbody>
</table>`

func testPlate() domain.PlateInfo {
	return domain.PlateInfo{Plate: "98A-123.45", VehicleClass: domain.VehicleCar}
}

func newTestEngine(t *testing.T, handler http.Handler) *Engine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := New(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// TestFetchFound tests the lookup path and record mapping, including
// the numbered resolution-office split.
func TestFetchFound(t *testing.T) {
	var gotPath string
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(violationTable + resolvedTable))
	}))

	res := e.Fetch(context.Background(), testPlate())

	assert.Equal(t, "/98A12345/1", gotPath)
	assert.Equal(t, domain.ProviderPhatNguoi, res.Provider)
	require.Equal(t, domain.StatusFound, res.Status)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "98A12345", first.Plate)
	assert.Equal(t, domain.VehicleCar, first.VehicleClass)
	assert.Equal(t, "Quốc lộ 1A - Bắc Giang", first.Location)
	assert.Equal(t, "Điều khiển xe chạy quá tốc độ quy định", first.Violation)
	assert.False(t, first.Resolved)
	assert.Equal(t, "Đội CSGT đường bộ số 2", first.EnforcementUnit)
	assert.Equal(t, []string{
		"1. Đội CSGT đường bộ số 2, Phòng CSGT Bắc Giang",
		"2. Công an huyện Việt Yên",
	}, first.ResolutionOffices)
	assert.Equal(t, "20:05, 28/02/2025", first.Time.Format(domain.ViolationTimeLayout))

	assert.True(t, res.Records[1].Resolved)
}

// TestFetchSkipsIncompleteTables tests that a table missing required
// cells is dropped without failing the lookup.
func TestFetchSkipsIncompleteTables(t *testing.T) {
	incomplete := `
<table><tbody>
  <tr><td>Biển kiểm soát</td><td>98A-123.45</td></tr>
  <tr><td>Màu biển</td><td></td></tr>
</tbody></table>`

	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(incomplete + violationTable))
	}))

	res := e.Fetch(context.Background(), testPlate())

	require.Equal(t, domain.StatusFound, res.Status)
	assert.Len(t, res.Records, 1)
}

// TestFetchAllTablesIncomplete tests that a response of only unreadable
// tables reads as a clean plate.
func TestFetchAllTablesIncomplete(t *testing.T) {
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table><tbody><tr><td>Thông báo</td><td>Không tìm thấy dữ liệu</td></tr></tbody></table>`))
	}))

	res := e.Fetch(context.Background(), testPlate())

	assert.Equal(t, domain.StatusNotFound, res.Status)
}

// TestFetchNoTable tests that a response without any violation table
// classifies as malformed.
func TestFetchNoTable(t *testing.T) {
	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div>bảo trì hệ thống</div>`))
	}))

	res := e.Fetch(context.Background(), testPlate())

	require.Equal(t, domain.StatusFailed, res.Status)
	require.NotNil(t, res.Failure)
	assert.Equal(t, domain.FailureMalformed, res.Failure.Kind)
}

// TestFetchBadVehicleClass tests that an unreadable class cell fails
// the whole lookup.
func TestFetchBadVehicleClass(t *testing.T) {
	bad := `
<table><tbody>
  <tr><td>Biển kiểm soát</td><td>98A-123.45</td></tr>
  <tr><td>Màu biển</td><td>Nền mầu trắng</td></tr>
  <tr><td>Loại phương tiện</td><td>Xe tải</td></tr>
  <tr><td>Thời gian vi phạm</td><td>20:05, 28/02/2025</td></tr>
  <tr><td>Địa điểm vi phạm</td><td>Quốc lộ 1A</td></tr>
  <tr><td>Hành vi vi phạm</td><td>Quá tốc độ</td></tr>
  <tr><td>Trạng thái</td><td>Chưa xử phạt</td></tr>
  <tr><td>Đơn vị phát hiện vi phạm</td><td>Đội CSGT số 2</td></tr>
  <tr><td>Nơi giải quyết vụ việc</td><td>1. Đội CSGT số 2</td></tr>
</tbody></table>`

	e := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(bad))
	}))

	res := e.Fetch(context.Background(), testPlate())

	require.Equal(t, domain.StatusFailed, res.Status)
	assert.Equal(t, domain.FailureMalformed, res.Failure.Kind)
}

// TestSplitOffices tests the numbered blob split.
func TestSplitOffices(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want []string
	}{
		{
			name: "two entries",
			blob: "1. Đội CSGT số 2 2. Công an huyện Việt Yên",
			want: []string{"1. Đội CSGT số 2", "2. Công an huyện Việt Yên"},
		},
		{
			name: "single entry",
			blob: "1. Đội CSGT TP Bắc Giang",
			want: []string{"1. Đội CSGT TP Bắc Giang"},
		},
		{
			name: "multiline",
			blob: "1. Đội CSGT số 2\nĐịa chỉ: Quốc lộ 1A\n2. Công an huyện Việt Yên",
			want: []string{"1. Đội CSGT số 2\nĐịa chỉ: Quốc lộ 1A", "2. Công an huyện Việt Yên"},
		},
		{
			name: "no numbering",
			blob: "Đội CSGT TP Bắc Giang",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOffices(tt.blob))
		})
	}
}

// TestFetchNetworkFailure tests that transport errors classify as
// network failures instead of leaking.
func TestFetchNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e := New(Config{Endpoint: url, Timeout: time.Second})
	defer e.Close()

	res := e.Fetch(context.Background(), testPlate())

	require.Equal(t, domain.StatusFailed, res.Status)
	assert.Equal(t, domain.FailureNetwork, res.Failure.Kind)
}
