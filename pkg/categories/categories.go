package categories

const (
	Movies    = "movies"
	TV        = "tv"
	Books     = "books"
	Games     = "games"
	Music     = "music"
	Podcasts  = "podcasts"
	Cocktails = "cocktails"
	Breweries = "breweries"
	Anime     = "anime"
)

type Category struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	NamePlural     string `json:"name_plural"`
	ItemName       string `json:"item_name"`
	ItemNamePlural string `json:"item_name_plural"`
}

// All is every category in display order.
var All = []Category{
	{Slug: Movies, Name: "Movies", NamePlural: "Movies", ItemName: "Movie", ItemNamePlural: "Movies"},
	{Slug: TV, Name: "TV", NamePlural: "TV Shows", ItemName: "Show", ItemNamePlural: "Shows"},
	{Slug: Books, Name: "Books", NamePlural: "Books", ItemName: "Book", ItemNamePlural: "Books"},
	{Slug: Games, Name: "Games", NamePlural: "Video Games", ItemName: "Game", ItemNamePlural: "Games"},
	{Slug: Music, Name: "Music", NamePlural: "Music", ItemName: "Item", ItemNamePlural: "Items"},
	{Slug: Podcasts, Name: "Podcasts", NamePlural: "Podcasts", ItemName: "Podcast", ItemNamePlural: "Podcasts"},
	{Slug: Cocktails, Name: "Cocktails", NamePlural: "Cocktails", ItemName: "Cocktail", ItemNamePlural: "Cocktails"},
	{Slug: Breweries, Name: "Breweries", NamePlural: "Breweries", ItemName: "Brewery", ItemNamePlural: "Breweries"},
	{Slug: Anime, Name: "Anime", NamePlural: "Anime", ItemName: "Anime", ItemNamePlural: "Anime"},
}

var bySlug = func() map[string]Category {
	m := make(map[string]Category, len(All))
	for _, c := range All {
		m[c.Slug] = c
	}
	return m
}()

// Get returns the category with the given slug.
func Get(slug string) (Category, bool) {
	c, ok := bySlug[slug]
	return c, ok
}

func IsValid(slug string) bool {
	_, ok := bySlug[slug]
	return ok
}

// Slugs returns every category slug in display order.
func Slugs() []string {
	out := make([]string, 0, len(All))
	for _, c := range All {
		out = append(out, c.Slug)
	}
	return out
}
