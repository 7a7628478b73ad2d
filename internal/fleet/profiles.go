package fleet

import "github.com/rubiojr/zapravka/pkg/api"

// RegionProfile drives the synthesis of one region's stations. Profiles are
// only used at generation time.
type RegionProfile struct {
	TargetCount   int
	Region        string
	Center        api.Coordinate
	Districts     []string
	Brands        []string
	EVProbability float64
}

// Regions lists every region name, in the order shown to users.
var Regions = []string{
	"Toshkent shahri",
	"Toshkent viloyati",
	"Andijon viloyati",
	"Buxoro viloyati",
	"Farg'ona viloyati",
	"Jizzax viloyati",
	"Xorazm viloyati",
	"Namangan viloyati",
	"Navoiy viloyati",
	"Qashqadaryo viloyati",
	"Qoraqalpog'iston Respublikasi",
	"Samarqand viloyati",
	"Sirdaryo viloyati",
	"Surxondaryo viloyati",
}

// Counts follow the 2025 station statistics; EV density is weighted
// heavily towards the capital.
func DefaultProfiles() []RegionProfile {
	return []RegionProfile{
		{
			TargetCount:   600,
			Region:        "Toshkent shahri",
			Center:        api.Coordinate{Lat: 41.2995, Lng: 69.2401},
			Districts:     []string{"Yunusobod", "Chilonzor", "Sergeli", "Mirzo Ulug'bek", "Yashnobod", "Olmazor", "Shayxontohur", "Yakkasaroy", "Mirobod", "Uchtepa", "Bektemir", "Yangihayot"},
			Brands:        []string{"UNG Petro", "Lukoil", "Mustang", "Intran", "Tatneft", "Miss", "Poytaxt Oil", "Grand Petrol", "Gazpromneft"},
			EVProbability: 0.55,
		},
		{
			TargetCount:   250,
			Region:        "Toshkent viloyati",
			Center:        api.Coordinate{Lat: 41.1000, Lng: 69.6000},
			Districts:     []string{"Bekobod", "Angren", "Chirchiq", "Olmaliq", "Yangiyo'l", "Parkent", "Bo'stonliq", "Qibray", "Zangiota", "Nurafshon"},
			Brands:        []string{"Viloyat Gaz", "Angren Oil", "Chirchiq Metan", "UNG Petro", "Bekobod Trans", "Lukoil"},
			EVProbability: 0.20,
		},
		{
			TargetCount:   180,
			Region:        "Farg'ona viloyati",
			Center:        api.Coordinate{Lat: 40.3842, Lng: 71.7843},
			Districts:     []string{"Farg'ona sh.", "Qo'qon", "Marg'ilon", "Rishton", "Oltiariq", "Quva"},
			Brands:        []string{"Vodiy Gaz", "Farg'ona Neft", "Qo'qon Metan", "Mustang", "Uzbekneftegaz"},
			EVProbability: 0.30,
		},
		{
			TargetCount:   220,
			Region:        "Samarqand viloyati",
			Center:        api.Coordinate{Lat: 39.6542, Lng: 66.9597},
			Districts:     []string{"Samarqand sh.", "Urgut", "Kattaqo'rg'on", "Bulung'ur", "Jomboy", "Pastdarg'om"},
			Brands:        []string{"Samarqand Oil", "Afrosiyob Gaz", "Registon Petrol", "Urgut Metan", "UNG Petro", "Lukoil"},
			EVProbability: 0.35,
		},
		{
			TargetCount:   100,
			Region:        "Xorazm viloyati",
			Center:        api.Coordinate{Lat: 41.5500, Lng: 60.6333},
			Districts:     []string{"Urganch", "Xiva", "Xonqa", "Shovot"},
			Brands:        []string{"Xorazm Gaz", "Xiva Petrol", "Urganch Oil", "Jayhun Metan"},
			EVProbability: 0.30,
		},
		{
			TargetCount:   120,
			Region:        "Qashqadaryo viloyati",
			Center:        api.Coordinate{Lat: 38.8416, Lng: 65.7905},
			Districts:     []string{"Qarshi", "Shahrisabz", "G'uzor", "Koson", "Kitob", "Muborak", "Ko'kdala", "Dehkonobod"},
			Brands:        []string{"Nasaf Gaz", "Lukoil", "Qarshi Oil", "Hisor Metan", "Gazpromneft", "Muborak Gaz"},
			EVProbability: 0.25,
		},
		{
			TargetCount:   100,
			Region:        "Namangan viloyati",
			Center:        api.Coordinate{Lat: 40.9983, Lng: 71.6726},
			Districts:     []string{"Namangan sh.", "Chust", "Pop", "To'raqo'rg'on"},
			Brands:        []string{"Namangan Oil", "Chust Gaz", "Pop Metan", "Namangan Petrol"},
			EVProbability: 0.15,
		},
		{
			TargetCount:   100,
			Region:        "Andijon viloyati",
			Center:        api.Coordinate{Lat: 40.7821, Lng: 72.3442},
			Districts:     []string{"Andijon sh.", "Asaka", "Shahrixon", "Xonobod"},
			Brands:        []string{"Andijon Gaz", "Bobur Oil", "Asaka Avto", "Vodiy Petrol"},
			EVProbability: 0.15,
		},
		{
			TargetCount:   90,
			Region:        "Buxoro viloyati",
			Center:        api.Coordinate{Lat: 39.7747, Lng: 64.4286},
			Districts:     []string{"Buxoro sh.", "G'ijduvon", "Vobkent", "Kogon"},
			Brands:        []string{"Buxoro Gaz", "Lukoil", "Caravan Oil", "G'ijduvon Metan"},
			EVProbability: 0.20,
		},
		{
			TargetCount:   80,
			Region:        "Surxondaryo viloyati",
			Center:        api.Coordinate{Lat: 37.2242, Lng: 67.2783},
			Districts:     []string{"Termiz", "Denov", "Sho'rchi", "Sherobod", "Sariosiyo", "Muzrabot", "Jarqo'rg'on"},
			Brands:        []string{"Surxon Gaz", "Termiz Oil", "Denov Petrol", "Sherobod Metan", "Sho'rchi Gaz", "Muzrabot Oil"},
			EVProbability: 0.10,
		},
		{
			TargetCount:   70,
			Region:        "Navoiy viloyati",
			Center:        api.Coordinate{Lat: 40.1031, Lng: 65.3739},
			Districts:     []string{"Navoiy sh.", "Zarafshon", "Qiziltepa", "Karmana"},
			Brands:        []string{"Navoiy Azot", "Zarafshon Gold Oil", "Qizilqum Gaz"},
			EVProbability: 0.15,
		},
		{
			TargetCount:   60,
			Region:        "Jizzax viloyati",
			Center:        api.Coordinate{Lat: 40.1158, Lng: 67.8422},
			Districts:     []string{"Jizzax sh.", "Zomin", "G'allaorol"},
			Brands:        []string{"Jizzax Petrol", "Zomin Eko", "Sangzor Oil"},
			EVProbability: 0.10,
		},
		{
			TargetCount:   60,
			Region:        "Sirdaryo viloyati",
			Center:        api.Coordinate{Lat: 40.4893, Lng: 68.7838},
			Districts:     []string{"Guliston", "Yangiyer", "Sirdaryo t."},
			Brands:        []string{"Sirdaryo Gaz", "Guliston Oil", "Yangiyer Petrol"},
			EVProbability: 0.10,
		},
		{
			TargetCount:   70,
			Region:        "Qoraqalpog'iston Respublikasi",
			Center:        api.Coordinate{Lat: 42.4619, Lng: 59.6166},
			Districts:     []string{"Nukus", "Qo'ng'irot", "To'rtko'l", "Beruniy", "Mo'ynoq"},
			Brands:        []string{"Aral Oil", "Nukus Gaz", "Ustyurt Petrol", "Lukoil"},
			EVProbability: 0.10,
		},
	}
}
