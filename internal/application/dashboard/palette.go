package dashboard

import "strings"

// 顯示用色票。
const (
	colorPurple  = "#A78BFA"
	colorIndigo  = "#818CF8"
	colorBlue    = "#60A5FA"
	colorTeal    = "#2DD4BF"
	colorSuccess = "#34D399"
	colorText    = "#1E293B"
	colorDanger  = "#F87171"

	ColorOrganic  = "#34D399"
	ColorPaid     = "#A78BFA"
	ColorSocial   = "#F472B6"
	ColorDirect   = "#60A5FA"
	ColorReferral = "#FBBF24"

	ColorDesktop = "#A78BFA"
	ColorMobile  = "#F472B6"
	ColorTablet  = "#60A5FA"
)

type colorRule struct {
	match func(name string) bool
	color string
}

func contains(sub string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, sub) }
}

// channelColorRules 依優先順序比對，第一個命中者勝出。
var channelColorRules = []colorRule{
	{match: contains("organic"), color: ColorOrganic},
	{match: contains("paid"), color: ColorPaid},
	{match: contains("social"), color: ColorSocial},
	{match: contains("direct"), color: ColorDirect},
}

// ChannelColor 以不分大小寫的子字串比對渠道名稱決定顏色，預設為 referral。
func ChannelColor(name string) string {
	lower := strings.ToLower(name)
	for _, r := range channelColorRules {
		if r.match(lower) {
			return r.color
		}
	}
	return ColorReferral
}
