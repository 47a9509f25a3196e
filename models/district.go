package models

// District is one entry of the Sabah district gazetteer. SubDistrict only
// affects how pickers group the list; the stored value is always Code.
type District struct {
	Code        string
	Label       string
	SubDistrict bool
}

// Districts lists every selectable district code.
var Districts = []District{
	{Code: "beaufort", Label: "Beaufort"},
	{Code: "beluran", Label: "Beluran"},
	{Code: "keningau", Label: "Keningau"},
	{Code: "kota-belud", Label: "Kota Belud"},
	{Code: "kota-kinabalu", Label: "Kota Kinabalu"},
	{Code: "kota-marudu", Label: "Kota Marudu"},
	{Code: "kudat", Label: "Kudat"},
	{Code: "kunak", Label: "Kunak"},
	{Code: "lahad-datu", Label: "Lahad Datu"},
	{Code: "nabawan", Label: "Nabawan"},
	{Code: "papar", Label: "Papar"},
	{Code: "penampang", Label: "Penampang"},
	{Code: "pitas", Label: "Pitas"},
	{Code: "putatan", Label: "Putatan"},
	{Code: "ranau", Label: "Ranau"},
	{Code: "sandakan", Label: "Sandakan"},
	{Code: "semporna", Label: "Semporna"},
	{Code: "sipitang", Label: "Sipitang"},
	{Code: "tambunan", Label: "Tambunan"},
	{Code: "tawau", Label: "Tawau"},
	{Code: "telupid", Label: "Telupid"},
	{Code: "tenom", Label: "Tenom"},
	{Code: "tongod", Label: "Tongod"},
	{Code: "tuaran", Label: "Tuaran"},
	{Code: "kuala-penyu", Label: "Kuala Penyu"},
	{Code: "kalabakan", Label: "Kalabakan"},
	{Code: "tanjung-aru", Label: "Tanjung Aru"},
	{Code: "tamparuli", Label: "Tamparuli", SubDistrict: true},
	{Code: "membakut", Label: "Membakut", SubDistrict: true},
	{Code: "menumbok", Label: "Menumbok", SubDistrict: true},
	{Code: "matunggong", Label: "Matunggong", SubDistrict: true},
	{Code: "paitan", Label: "Paitan", SubDistrict: true},
}

// LookupDistrict finds a district by its stored code.
func LookupDistrict(code string) (District, bool) {
	for _, d := range Districts {
		if d.Code == code {
			return d, true
		}
	}
	return District{}, false
}

// ReportYears are the years offered by the report year selector. Any other
// year is still accepted and simply yields empty aggregates.
var ReportYears = []int{2024, 2023, 2022}
