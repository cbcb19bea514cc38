package monday

// ColumnValues maps a board column id to its encoded value.
type ColumnValues map[string]any

type StatusValue struct {
	Label string `json:"label"`
}

type EmailValue struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

type PhoneValue struct {
	Phone            string `json:"phone"`
	CountryShortName string `json:"countryShortName"`
}

type DateValue struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// Friendly field names understood by the board writer.
const (
	ColDivision    = "division"
	ColDepartment  = "department"
	ColSite        = "site"
	ColEmail       = "email"
	ColPhone       = "phone"
	ColCallerID    = "callerId"
	ColReason      = "reason"
	ColTimeInOut   = "timeInOut"
	ColStartTime   = "startTime"
	ColEndTime     = "endTime"
	ColDateTime    = "dateTime"
	ColDeptEmail   = "deptEmail"
	ColEmailStatus = "emailStatus"
	ColItemIDEcho  = "itemIdEcho"
	ColZoomGUID    = "zoomGuid"
	ColShift       = "shift"
)

// ColumnMap resolves friendly field names to the board's column ids.
type ColumnMap map[string]string

func DefaultColumns() ColumnMap {
	return ColumnMap{
		ColDivision:    "color_mktd81zp",
		ColDepartment:  "color_mktsk31h",
		ColSite:        "text_mktj4gmt",
		ColEmail:       "email_mktdyt3z",
		ColPhone:       "phone_mktdphra",
		ColCallerID:    "phone_mkv0p9q3",
		ColReason:      "text_mktdb8pg",
		ColTimeInOut:   "text_mktsvsns",
		ColStartTime:   "text_mkv0t29z",
		ColEndTime:     "text_mkv0nmq1",
		ColDateTime:    "date4",
		ColDeptEmail:   "text_mkv07gad",
		ColEmailStatus: "color_mkv0cpxc",
		ColItemIDEcho:  "pulse_id_mkv6rhgy",
		ColZoomGUID:    "text_mkv7j2fq",
		ColShift:       "text_mkwn6bzw",
	}
}

// Merge returns a copy of m with overrides applied. Empty override values are
// ignored.
func (m ColumnMap) Merge(overrides map[string]string) ColumnMap {
	out := make(ColumnMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
