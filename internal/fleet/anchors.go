package fleet

import (
	"time"

	"github.com/rubiojr/zapravka/pkg/api"
)

type anchor struct {
	id, name, region, district, address string
	lat, lng                            float64
	fuels                               []api.FuelQuote
	queue                               api.QueueStatus
	amenities                           []api.Amenity
	rating                              float64
	reviews                             int
}

func fq(kind api.FuelKind, price int64, available bool) api.FuelQuote {
	return api.FuelQuote{Kind: kind, Price: price, Available: available}
}

var anchors = []anchor{
	// Qashqadaryo
	{
		id: "qarshi-m39-metan", name: "Qarshi M-39 Avtomarket Metan",
		region: "Qashqadaryo viloyati", district: "Qarshi",
		address: "Qarshi-Muborak tra'ssasi, Avtomarket yonida",
		lat:     38.8500, lng: 65.7800,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Propan, 5300, true)},
		queue:     api.QueueHigh,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityPrayerRoom, api.AmenityWC},
		rating:    4.1, reviews: 420,
	},
	{
		id: "qarshi-huawei-ev", name: "Huawei SuperCharge - Qarshi IT Park",
		region: "Qashqadaryo viloyati", district: "Qarshi",
		address: "IT Park hududi, Qarshi markazi",
		lat:     38.8350, lng: 65.7950,
		fuels:     []api.FuelQuote{fq(api.Elektr, 1750, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityWifi, api.AmenityCafe, api.AmenityWC},
		rating:    5.0, reviews: 85,
	},
	{
		id: "qarshi-navoiy-lukoil", name: "Lukoil - A. Navoiy",
		region: "Qashqadaryo viloyati", district: "Qarshi",
		address: "Alisher Navoiy shox ko'chasi",
		lat:     38.8420, lng: 65.8000,
		fuels:     []api.FuelQuote{fq(api.Benzi92, 10800, true), fq(api.Benzi95, 12900, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityTireShop, api.AmenityOilChange},
		rating:    4.6, reviews: 1100,
	},
	{
		id: "gazpromneft-qarshi", name: "Gazpromneft - Qarshi",
		region: "Qashqadaryo viloyati", district: "Qarshi",
		address: "A. Navoiy ko'chasi, Markaz",
		lat:     38.8450, lng: 65.7980,
		fuels:     []api.FuelQuote{fq(api.Benzi92, 10500, true), fq(api.Benzi95, 12600, true), fq(api.Dizel, 13200, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityCafe, api.AmenityWifi},
		rating:    4.7, reviews: 340,
	},
	{
		id: "muborak-gaz-zavod", name: "Muborak Gaz Zavod Propan",
		region: "Qashqadaryo viloyati", district: "Muborak",
		address: "Gazni qayta ishlash zavodi zonasi",
		lat:     39.2560, lng: 65.1540,
		fuels:     []api.FuelQuote{fq(api.Propan, 5100, true), fq(api.Metan, 3750, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityPrayerRoom},
		rating:    4.3, reviews: 560,
	},
	{
		id: "shahrisabz-kitob-yoli", name: "Shahrisabz-Kitob Metan",
		region: "Qashqadaryo viloyati", district: "Shahrisabz",
		address: "Kitob yo'li tra'ssasi",
		lat:     39.0600, lng: 66.8300,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Benzi80, 6800, true)},
		queue:     api.QueueHigh,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityCarWash},
		rating:    4.0, reviews: 290,
	},
	{
		id: "kitob-m77-metan", name: "Kitob M-77 Metan",
		region: "Qashqadaryo viloyati", district: "Kitob",
		address: "M-77 Tra'ssasi",
		lat:     39.1350, lng: 66.9000,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true)},
		queue:     api.QueueHigh,
		amenities: []api.Amenity{api.AmenityPrayerRoom},
		rating:    3.8, reviews: 120,
	},
	{
		id: "kokdala-oltindala", name: "Ko'kdala Oltindala Propan",
		region: "Qashqadaryo viloyati", district: "Ko'kdala",
		address: "Oltindala MFY hududi",
		lat:     39.0000, lng: 66.0000,
		fuels:     []api.FuelQuote{fq(api.Propan, 5400, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{},
		rating:    3.5, reviews: 90,
	},

	// Surxondaryo
	{
		id: "termiz-m39-metan", name: "Termiz M-39 Metan",
		region: "Surxondaryo viloyati", district: "Termiz",
		address: "M-39 Trassasi, Termiz shahar kirish qismi",
		lat:     37.2550, lng: 67.2900,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Propan, 5400, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityPrayerRoom, api.AmenityWC, api.AmenityMarket},
		rating:    4.2, reviews: 312,
	},
	{
		id: "shorchi-bozor-gaz", name: "Sho'rchi Bozor Metan",
		region: "Surxondaryo viloyati", district: "Sho'rchi",
		address: "Sho'rchi dehqon bozori yaqinida",
		lat:     38.0120, lng: 67.7850,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Benzi80, 6800, true)},
		queue:     api.QueueCritical,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityOilChange},
		rating:    3.5, reviews: 220,
	},
	{
		id: "sherobod-avtovokzal", name: "Sherobod Avtovokzal Gaz",
		region: "Surxondaryo viloyati", district: "Sherobod",
		address: "Sherobod Avtovokzal",
		lat:     37.6740, lng: 67.0510,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Propan, 5300, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityWC, api.AmenityCafe},
		rating:    4.0, reviews: 180,
	},
	{
		id: "sariosiyo-olchazor", name: "Sariosiyo Olchazor-2 Metan",
		region: "Surxondaryo viloyati", district: "Sariosiyo",
		address: "Olchazor-2 podstansiyasi yaqinida",
		lat:     38.1150, lng: 67.9050,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityPrayerRoom, api.AmenityAir},
		rating:    4.5, reviews: 150,
	},

	// Toshkent shahri
	{
		id: "ung-bodomzor", name: "UNG Petro - Bodomzor",
		region: "Toshkent shahri", district: "Yunusobod",
		address: "Amir Temur ko'chasi, 108",
		lat:     41.3456, lng: 69.2845,
		fuels:     []api.FuelQuote{fq(api.Benzi80, 6800, true), fq(api.Benzi92, 9200, true), fq(api.Benzi95, 11500, false)},
		queue:     api.QueueHigh,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityWC, api.AmenityAir, api.AmenityOilChange},
		rating:    3.8, reviews: 1245,
	},
	{
		id: "megaplanet-ev", name: "Megawatt - MegaPlanet",
		region: "Toshkent shahri", district: "Yunusobod",
		address: "Ahmad Donish ko'chasi",
		lat:     41.3672, lng: 69.2917,
		fuels:     []api.FuelQuote{fq(api.Elektr, 1800, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityWifi, api.AmenityCafe},
		rating:    4.7, reviews: 210,
	},
	{
		id: "lukoil-qoratosh", name: "Lukoil - Qoratosh",
		region: "Toshkent shahri", district: "Shayxontohur",
		address: "Qoratosh ko'chasi, 5A",
		lat:     41.3123, lng: 69.2345,
		fuels:     []api.FuelQuote{fq(api.Benzi92, 10800, true), fq(api.Benzi95, 13000, true), fq(api.Dizel, 13800, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityMarket, api.AmenityWC, api.AmenityCafe, api.AmenityWifi, api.AmenityOilChange, api.AmenityTireShop},
		rating:    4.5, reviews: 2301,
	},
	{
		id: "metan-sergeli", name: "Metan Gaz Servis",
		region: "Toshkent shahri", district: "Sergeli",
		address: "Yangisergeli yo'li, 44",
		lat:     41.2234, lng: 69.2100,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true)},
		queue:     api.QueueCritical,
		amenities: []api.Amenity{api.AmenityPrayerRoom, api.AmenityWC, api.AmenityTireShop},
		rating:    4.0, reviews: 2100,
	},
	{
		id: "yangihayot-mega", name: "Yangihayot Mega Gaz",
		region: "Toshkent shahri", district: "Yangihayot",
		address: "Qipchoq ko'chasi",
		lat:     41.2000, lng: 69.2200,
		fuels:     []api.FuelQuote{fq(api.Metan, 3750, true), fq(api.Propan, 5400, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityCarWash, api.AmenityMarket},
		rating:    4.1, reviews: 450,
	},
	{
		id: "tokbor-ecopark", name: "TokBor - EcoPark",
		region: "Toshkent shahri", district: "Mirobod",
		address: "Mahtumquli ko'chasi, Ecopark",
		lat:     41.3100, lng: 69.2900,
		fuels:     []api.FuelQuote{fq(api.Elektr, 1800, true)},
		queue:     api.QueueLow,
		amenities: []api.Amenity{api.AmenityWifi, api.AmenityCafe, api.AmenityWC},
		rating:    4.8, reviews: 420,
	},
	{
		id: "lukoil-airport", name: "Lukoil - Aeroport",
		region: "Toshkent shahri", district: "Yakkasaroy",
		address: "Bobur ko'chasi, Aeroport yaqinida",
		lat:     41.2600, lng: 69.2500,
		fuels:     []api.FuelQuote{fq(api.Benzi95, 13000, true), fq(api.Dizel, 13500, true)},
		queue:     api.QueueMedium,
		amenities: []api.Amenity{api.AmenityCafe, api.AmenityWifi, api.AmenityMarket},
		rating:    4.6, reviews: 1500,
	},
}

// Anchors returns the hand-authored stations that seed every fleet, stamped
// with now.
func Anchors(now time.Time) []api.Station {
	out := make([]api.Station, 0, len(anchors))
	for _, a := range anchors {
		out = append(out, api.Station{
			ID:          a.id,
			Name:        a.name,
			Region:      a.region,
			District:    a.district,
			Address:     a.address,
			Location:    api.Coordinate{Lat: a.lat, Lng: a.lng},
			Fuels:       append([]api.FuelQuote(nil), a.fuels...),
			QueueStatus: a.queue,
			LastUpdated: now,
			Amenities:   append([]api.Amenity{}, a.amenities...),
			IsOpen:      true,
			Rating:      a.rating,
			ReviewCount: a.reviews,
		})
	}
	return out
}

// DefaultRates returns the reference market prices.
func DefaultRates(now time.Time) []api.MarketRate {
	return []api.MarketRate{
		{Kind: api.Benzi80, Price: 6800, Change: 0, Trend: api.TrendStable, LastUpdated: now},
		{Kind: api.Benzi92, Price: 9500, Change: 100, Trend: api.TrendUp, LastUpdated: now},
		{Kind: api.Benzi95, Price: 11800, Change: 200, Trend: api.TrendUp, LastUpdated: now},
		{Kind: api.Metan, Price: 3750, Change: 0, Trend: api.TrendStable, LastUpdated: now},
		{Kind: api.Propan, Price: 5400, Change: -50, Trend: api.TrendDown, LastUpdated: now},
		{Kind: api.Dizel, Price: 12200, Change: -100, Trend: api.TrendDown, LastUpdated: now},
		{Kind: api.Elektr, Price: 1850, Change: 50, Trend: api.TrendUp, LastUpdated: now},
	}
}
