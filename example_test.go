package docupdate_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/docupdate"
	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/schema"
)

func Example() {
	musicType := document.MustStructType("music",
		document.Field{Name: "title", Type: document.String},
		document.Field{Name: "tags", Type: document.ArrayOf(document.String)},
	)
	repo := schema.NewRegistry()
	if err := repo.RegisterDocument(musicType); err != nil {
		panic(err)
	}

	u := docupdate.New(repo)
	doc := document.MustNew(musicType, "id:music:1")

	add, err := u.Add("music", "tags", "", document.Strings("rock"))
	if err != nil {
		panic(err)
	}
	status, err := u.Apply(context.Background(), doc, add)
	if err != nil {
		panic(err)
	}
	desc, _ := u.Describe(add)

	fmt.Println(status)
	fmt.Println(string(desc))
	// Output:
	// MODIFIED
	// {"op":"add","documentType":"music","path":"tags","values":["rock"]}
}
