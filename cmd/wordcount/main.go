// Command wordcount counts the words in text files with sparkling
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/driver"
)

func main() {
	configPath := flag.String("config", "", "YAML options file")
	workers := flag.Int("workers", 0, "number of partitions computed concurrently (overrides the options file)")
	minPartitions := flag.Int("partitions", 0, "minimum number of partitions to read the input into")
	top := flag.Int("top", 10, "number of most frequent words to print")
	output := flag.String("output", "", "save every count to this path instead of printing the most frequent words")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <path>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := &driver.Options{AppName: "wordcount"}
	if len(*configPath) > 0 {
		var err error
		opts, err = driver.LoadOptions(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	} else if err := driver.ApplyEnvironment(opts); err != nil {
		log.Fatal(err)
	}
	if *workers > 0 {
		opts.NumWorkers = *workers
	}
	sc, err := driver.CreateContext(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer sc.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, sc, flag.Arg(0), *minPartitions, *top, *output); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, sc *driver.Context, path string, minPartitions int, top int, output string) error {
	text, err := sc.TextFile(ctx, path, minPartitions)
	if err != nil {
		return err
	}
	counts, err := countWords(ctx, text)
	if err != nil {
		return err
	}
	if len(output) > 0 {
		return counts.SaveAsTextFile(ctx, output)
	}
	frequent, err := counts.Top(ctx, top, func(elem interface{}) (interface{}, error) {
		return elem.(sparkling.Pair).Value, nil
	})
	if err != nil {
		return err
	}
	for _, elem := range frequent {
		pair := elem.(sparkling.Pair)
		fmt.Printf("%8d %s\n", pair.Value, pair.Key)
	}
	return nil
}

// countWords produces a Pair{word, count} per distinct lower-cased word
func countWords(ctx context.Context, text sparkling.Dataset) (sparkling.Dataset, error) {
	return text.FlatMap(func(elem interface{}) ([]interface{}, error) {
		words := strings.FieldsFunc(strings.ToLower(elem.(string)), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
		})
		pairs := make([]interface{}, len(words))
		for i, w := range words {
			pairs[i] = sparkling.NewPair(w, 1)
		}
		return pairs, nil
	}).ReduceByKey(ctx, func(a interface{}, b interface{}) (interface{}, error) {
		return a.(int) + b.(int), nil
	})
}
