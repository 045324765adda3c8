package geocode

type centroid struct {
	lat float64
	lng float64
}

// cityCentroids covers every county and city. Last-resort precision when
// neither the upstream geocoder nor the district table answers.
var cityCentroids = map[string]centroid{
	"台北市": {25.0375, 121.5637},
	"新北市": {25.0120, 121.4657},
	"桃園市": {24.9937, 121.3010},
	"台中市": {24.1477, 120.6736},
	"台南市": {22.9999, 120.2270},
	"高雄市": {22.6273, 120.3014},
	"基隆市": {25.1276, 121.7392},
	"新竹市": {24.8138, 120.9675},
	"新竹縣": {24.8387, 121.0177},
	"苗栗縣": {24.5602, 120.8214},
	"彰化縣": {24.0518, 120.5161},
	"南投縣": {23.9610, 120.9719},
	"雲林縣": {23.7092, 120.4313},
	"嘉義市": {23.4801, 120.4491},
	"嘉義縣": {23.4518, 120.2555},
	"屏東縣": {22.5519, 120.5487},
	"宜蘭縣": {24.7021, 121.7378},
	"花蓮縣": {23.9872, 121.6016},
	"台東縣": {22.7583, 121.1444},
	"澎湖縣": {23.5712, 119.5793},
	"金門縣": {24.4493, 118.3767},
	"連江縣": {26.1505, 119.9499},
}

// districtCentroids covers the six special municipalities' urban cores,
// where most transactions land.
var districtCentroids = map[string]centroid{
	"台北市中正區": {25.0324, 121.5199},
	"台北市大同區": {25.0627, 121.5113},
	"台北市中山區": {25.0697, 121.5381},
	"台北市松山區": {25.0600, 121.5577},
	"台北市大安區": {25.0268, 121.5436},
	"台北市萬華區": {25.0286, 121.4980},
	"台北市信義區": {25.0330, 121.5654},
	"台北市士林區": {25.0922, 121.5245},
	"台北市北投區": {25.1321, 121.4987},
	"台北市內湖區": {25.0689, 121.5906},
	"台北市南港區": {25.0546, 121.6067},
	"台北市文山區": {24.9887, 121.5706},
	"新北市板橋區": {25.0097, 121.4590},
	"新北市三重區": {25.0617, 121.4880},
	"新北市中和區": {24.9993, 121.4989},
	"新北市永和區": {25.0077, 121.5168},
	"新北市新莊區": {25.0358, 121.4504},
	"新北市新店區": {24.9676, 121.5415},
	"新北市土城區": {24.9722, 121.4438},
	"新北市蘆洲區": {25.0849, 121.4738},
	"新北市汐止區": {25.0629, 121.6595},
	"新北市林口區": {25.0775, 121.3916},
	"新北市淡水區": {25.1645, 121.4489},
	"新北市三峽區": {24.9341, 121.3688},
	"新北市樹林區": {24.9906, 121.4203},
	"桃園市桃園區": {24.9932, 121.3010},
	"桃園市中壢區": {24.9654, 121.2250},
	"桃園市平鎮區": {24.9455, 121.2184},
	"桃園市八德區": {24.9286, 121.2847},
	"桃園市蘆竹區": {25.0455, 121.2920},
	"桃園市龜山區": {25.0282, 121.3526},
	"桃園市龍潭區": {24.8637, 121.2162},
	"台中市中區":  {24.1398, 120.6796},
	"台中市東區":  {24.1369, 120.6965},
	"台中市南區":  {24.1210, 120.6642},
	"台中市西區":  {24.1418, 120.6643},
	"台中市北區":  {24.1571, 120.6817},
	"台中市西屯區": {24.1659, 120.6165},
	"台中市南屯區": {24.1384, 120.6133},
	"台中市北屯區": {24.1822, 120.6860},
	"台中市豐原區": {24.2420, 120.7225},
	"台南市中西區": {22.9935, 120.1954},
	"台南市東區":  {22.9804, 120.2245},
	"台南市南區":  {22.9608, 120.1896},
	"台南市北區":  {23.0096, 120.2049},
	"台南市安平區": {23.0000, 120.1665},
	"台南市安南區": {23.0473, 120.1846},
	"台南市永康區": {23.0262, 120.2570},
	"高雄市新興區": {22.6311, 120.3090},
	"高雄市前金區": {22.6274, 120.2946},
	"高雄市苓雅區": {22.6216, 120.3120},
	"高雄市鹽埕區": {22.6247, 120.2852},
	"高雄市鼓山區": {22.6369, 120.2818},
	"高雄市三民區": {22.6477, 120.3221},
	"高雄市前鎮區": {22.5942, 120.3178},
	"高雄市左營區": {22.6900, 120.2945},
	"高雄市楠梓區": {22.7286, 120.3262},
	"高雄市鳳山區": {22.6270, 120.3620},
}

func districtCentroid(city, district string) (centroid, bool) {
	if district == "" {
		return centroid{}, false
	}
	c, ok := districtCentroids[city+district]
	return c, ok
}

func cityCentroid(city string) (centroid, bool) {
	c, ok := cityCentroids[city]
	return c, ok
}
