// Package horrordb is an embeddable Go client for horror movie search over a
// Databricks vector search index.
//
// The client runs the same search path as the horrordb server: it validates the
// query, caps concurrent warehouse statements, optionally consults a Redis/Valkey
// result cache and maps the rows of the vector_search table function to movies.
//
//	client, err := horrordb.New(ctx,
//	    horrordb.WithWarehouse("adb-123.azuredatabricks.net", "abc123"),
//	    horrordb.WithToken(os.Getenv("DATABRICKS_TOKEN")),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	movies, _ := client.Search(ctx, "creepy haunted house", &horrordb.SearchOptions{Limit: 3})
//	for _, m := range movies {
//	    fmt.Println(m.Title, m.ReleaseYear)
//	}
package horrordb
