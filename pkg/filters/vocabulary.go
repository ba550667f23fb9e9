package filters

// Tags that carry a label take part in generated names. Tags with an empty
// label are valid filters that never show up in a name.

var genreLabels = map[string]string{
	// film and television
	"action":      "Action",
	"adventure":   "Adventure",
	"animation":   "Animation",
	"comedy":      "Comedy",
	"crime":       "Crime",
	"documentary": "Documentary",
	"drama":       "Drama",
	"family":      "Family",
	"fantasy":     "Fantasy",
	"history":     "History",
	"horror":      "Horror",
	"music":       "Music",
	"mystery":     "Mystery",
	"romance":     "Romance",
	"scifi":       "Sci-Fi",
	"thriller":    "Thriller",
	"war":         "War",
	"western":     "Western",

	// music
	"rock":       "Rock",
	"pop":        "Pop",
	"hiphop":     "Hip-Hop",
	"electronic": "Electronic",
	"jazz":       "Jazz",
	"classical":  "Classical",
	"rnb":        "R&B",
	"metal":      "Metal",
	"indie":      "Indie",
	"country":    "Country",

	// podcasts
	"truecrime":  "",
	"news":       "",
	"technology": "",
	"business":   "",

	// anime
	"mecha":         "",
	"slice_of_life": "",
	"sports":        "",
	"supernatural":  "",

	// books
	"fiction": "",
	"science": "",

	// cocktails
	"cocktail": "",
	"ordinary": "",
	"shot":     "",
	"punch":    "",

	// breweries
	"micro":    "",
	"brewpub":  "",
	"regional": "",
	"nano":     "",
	"large":    "",
	"contract": "",
}

var keywordLabels = map[string]string{
	"remake":              "Remake",
	"sequel":              "Sequel",
	"based_on_book":       "Book Adaptation",
	"based_on_true_story": "True Story",
	"superhero":           "Superhero",
	"anime":               "Anime",
	"time_travel":         "Time Travel",
	"dystopia":            "Dystopian",
	"christmas":           "Christmas",
	"album":               "Album",
	"song":                "Song",
	"artist":              "Artist",
}

var certificationLabels = map[string]string{
	"g":    "G-Rated",
	"pg":   "PG",
	"pg13": "PG-13",
	"r":    "R-Rated",
}

var languageLabels = map[string]string{
	"ko": "Korean",
	"ja": "Japanese",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"zh": "Chinese",
	"hi": "Hindi",
	"pt": "Portuguese",
}

// Decades are rendered verbatim, so they have no label table.
var decades = []string{"1950s", "1960s", "1970s", "1980s", "1990s", "2000s", "2010s", "2020s"}

var sizes = []int{5, 10, 25, 50}

// MusicTypes are the keywords that name the kind of music entry rather than
// a theme.
var MusicTypes = []string{"artist", "album", "song"}

func GenreLabel(tag string) string         { return genreLabels[tag] }
func KeywordLabel(tag string) string       { return keywordLabels[tag] }
func CertificationLabel(tag string) string { return certificationLabels[tag] }
func LanguageLabel(tag string) string      { return languageLabels[tag] }

func IsMusicType(keyword string) bool {
	for _, t := range MusicTypes {
		if t == keyword {
			return true
		}
	}
	return false
}

func IsValidGenre(tag string) bool {
	_, ok := genreLabels[tag]
	return ok
}

func IsValidKeyword(tag string) bool {
	_, ok := keywordLabels[tag]
	return ok
}

func IsValidCertification(tag string) bool {
	_, ok := certificationLabels[tag]
	return ok
}

func IsValidLanguage(tag string) bool {
	_, ok := languageLabels[tag]
	return ok
}

func IsValidDecade(tag string) bool {
	for _, d := range decades {
		if d == tag {
			return true
		}
	}
	return false
}

func IsValidSize(size int) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Vocabulary is the full set of tags accepted for each filter field.
type Vocabulary struct {
	Genres         []string `json:"genres"`
	Decades        []string `json:"decades"`
	Keywords       []string `json:"keywords"`
	Certifications []string `json:"certifications"`
	Languages      []string `json:"languages"`
	Sizes          []int    `json:"sizes"`
}

// Vocab returns the accepted tags, sorted within each field.
func Vocab() Vocabulary {
	return Vocabulary{
		Genres:         sortedKeys(genreLabels),
		Decades:        append([]string(nil), decades...),
		Keywords:       sortedKeys(keywordLabels),
		Certifications: sortedKeys(certificationLabels),
		Languages:      sortedKeys(languageLabels),
		Sizes:          append([]int(nil), sizes...),
	}
}
