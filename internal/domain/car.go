package domain

// Car is one vehicle listing shown on the site. Values are kept as the
// export spelled them.
type Car struct {
	Year      string
	Make      string
	Model     string
	Location  string
	Available string
}
