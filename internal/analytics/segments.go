package analytics

import "github.com/mberahman/pos-analytics/internal/model"

// Segment assignment is a static lookup from composite R-F-M codes, the
// textbook RFM table. Each segment owns an explicit enumerated set of codes;
// the table has gaps and overlaps that no clean score-range formula
// reproduces, so it stays enumerated. Unlisted codes fall through to Lost.
var segmentCodes = []struct {
	segment model.Segment
	codes   []string
}{
	{model.SegmentChampions, []string{
		"555", "554", "544", "545", "454", "455", "445",
	}},
	{model.SegmentLoyalCustomers, []string{
		"543", "444", "435", "355", "354", "345", "344", "335",
	}},
	{model.SegmentPotentialLoyalists, []string{
		"553", "551", "552", "541", "542", "533", "532", "531",
		"452", "451", "442", "441", "431", "453", "433", "432",
		"423", "353", "352", "351", "342", "341", "333", "323",
	}},
	{model.SegmentNewCustomers, []string{
		"512", "511", "422", "421", "412", "411", "311",
	}},
	{model.SegmentPromising, []string{
		"525", "524", "523", "522", "521", "515", "514", "513",
		"425", "424", "413", "414", "415", "315", "314", "313",
	}},
	{model.SegmentNeedAttention, []string{
		"535", "534", "443", "434", "343", "334", "325", "324",
	}},
	{model.SegmentAboutToSleep, []string{
		"331", "321", "312", "221", "213", "231", "241", "251",
	}},
	{model.SegmentAtRisk, []string{
		"255", "254", "245", "244", "253", "252", "243", "242",
		"235", "234", "225", "224", "153", "152", "145", "143",
		"142", "135", "134", "133", "125", "124",
	}},
	{model.SegmentCannotLoseThem, []string{
		"155", "154", "144", "214", "215", "115", "114", "113",
	}},
	{model.SegmentHibernating, []string{
		"332", "322", "233", "232", "223", "222", "132", "123",
		"122", "212", "211",
	}},
	{model.SegmentLost, []string{
		"111", "112", "121", "131", "141", "151",
	}},
}

var segmentByCode = func() map[string]model.Segment {
	m := make(map[string]model.Segment, 128)
	for _, sc := range segmentCodes {
		for _, code := range sc.codes {
			m[code] = sc.segment
		}
	}
	return m
}()

func segmentForCode(code string) model.Segment {
	if seg, ok := segmentByCode[code]; ok {
		return seg
	}
	return model.SegmentLost
}

// typeForSegment collapses the eleven segments down to the coarse customer
// type persisted by the tagger.
func typeForSegment(seg model.Segment) model.CustomerType {
	switch seg {
	case model.SegmentChampions, model.SegmentCannotLoseThem:
		return model.CustomerTypeVIP
	case model.SegmentLoyalCustomers, model.SegmentPotentialLoyalists:
		return model.CustomerTypePremium
	default:
		return model.CustomerTypeRegular
	}
}
