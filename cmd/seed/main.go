// Command seed fills the books collection with a fixed catalog plus generated titles.
// The generator uses a constant seed, so repeated runs produce the same books.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/hamropustak/pasal/config"
	"github.com/hamropustak/pasal/models"
	"github.com/hamropustak/pasal/store"
	"github.com/joho/godotenv"
)

const seed = 20240415

var (
	genres = []string{"Fiction", "Science Fiction", "History", "Poetry", "Biography", "Self-Help", "Children", "Travel"}
	moods  = []string{"uplifting", "reflective", "adventurous", "dark", "romantic", "funny"}
	words  = []string{"River", "Himalaya", "Letters", "Night", "Garden", "Journey", "Silence", "Monsoon", "Valley", "Lantern", "Echoes", "Prayer"}
	names  = []string{"Anita Gurung", "Bikram Karki", "Chandra Basnet", "Deepa Lama", "Eshan Joshi", "Folasade Rai", "Gopal Adhikari"}
)

func ptr(v float64) *float64 { return &v }

// fixed is the hand-written part of the catalog.
func fixed() []models.Book {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	return []models.Book{
		{
			Title:        "Palpasa Cafe",
			Author:       "Narayan Wagle",
			Genres:       []string{"Fiction"},
			Moods:        []string{"reflective"},
			Formats:      []models.Format{models.FormatPaperback, models.FormatEbook},
			Price:        models.Prices{Paperback: ptr(495), Ebook: ptr(250)},
			PublishDate:  day(2005, time.October, 1),
			PageCount:    230,
			IsBestseller: true,
			Description:  "A painter, a war, and a cafe in the hills.",
		},
		{
			Title:        "Seto Dharti",
			Author:       "Amar Neupane",
			Genres:       []string{"Fiction"},
			Moods:        []string{"reflective", "dark"},
			Formats:      []models.Format{models.FormatPaperback, models.FormatHardcover},
			Price:        models.Prices{Paperback: ptr(550), Hardcover: ptr(900)},
			PublishDate:  day(2012, time.June, 1),
			PageCount:    300,
			IsBestseller: true,
		},
		{
			Title:       "Muna Madan",
			Author:      "Laxmi Prasad Devkota",
			Genres:      []string{"Poetry"},
			Moods:       []string{"romantic"},
			Formats:     []models.Format{models.FormatHardcover, models.FormatAudiobook},
			Price:       models.Prices{Hardcover: ptr(350), Audiobook: ptr(300)},
			PublishDate: day(1936, time.January, 1),
			PageCount:   64,
		},
		{
			Title:       "Karnali Blues",
			Author:      "Buddhisagar",
			Genres:      []string{"Fiction"},
			Moods:       []string{"uplifting"},
			Formats:     []models.Format{models.FormatPaperback},
			Price:       models.Prices{Paperback: ptr(600)},
			PublishDate: day(2010, time.March, 1),
			PageCount:   380,
			IsNew:       true,
			Status:      "Pre-order",
		},
	}
}

func generate(rng *rand.Rand, n int, now time.Time) []models.Book {
	books := make([]models.Book, 0, n)
	for i := 0; i < n; i++ {
		title := "The " + words[rng.IntN(len(words))] + " of " + words[rng.IntN(len(words))]
		b := models.Book{
			Title:        fmt.Sprintf("%s, Vol. %d", title, i+1),
			Author:       names[rng.IntN(len(names))],
			Genres:       []string{genres[rng.IntN(len(genres))]},
			Moods:        []string{moods[rng.IntN(len(moods))]},
			PageCount:    80 + rng.IntN(520),
			PublishDate:  now.AddDate(-rng.IntN(30), -rng.IntN(12), 0),
			IsBestseller: rng.IntN(8) == 0,
			IsNew:        rng.IntN(5) == 0,
			Formats:      []models.Format{models.FormatPaperback},
			Price:        models.Prices{Paperback: ptr(float64(200 + 50*rng.IntN(17)))},
		}
		if rng.IntN(3) == 0 {
			b.Formats = append(b.Formats, models.FormatEbook)
			b.Price.Ebook = ptr(*b.Price.Paperback / 2)
		}
		b.ReadingTime = b.PageCount * 3 / 2
		books = append(books, b)
	}
	return books
}

func main() {
	n := flag.Int("n", 40, "number of generated books in addition to the fixed set")
	reset := flag.Bool("reset", false, "drop the books collection first")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer db.Disconnect(context.Background())

	if *reset {
		if err := db.Books().Drop(ctx); err != nil {
			log.Fatal("drop books:", err)
		}
		log.Println("books collection dropped")
	}

	// Generated dates hang off a fixed day so reruns match.
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	books := append(fixed(), generate(rng, *n, base)...)
	now := time.Now().UTC()
	for i := range books {
		if err := books[i].Validate(); err != nil {
			log.Fatalf("seed book %q: %v", books[i].Title, err)
		}
		books[i].CreatedAt, books[i].UpdatedAt = now, now
		if _, err := db.InsertBook(ctx, &books[i]); err != nil {
			log.Fatalf("insert %q: %v", books[i].Title, err)
		}
	}
	log.Printf("seeded %d books", len(books))
}
