package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/olekukonko/tablewriter"
)

// inspect dumps the stored chat records for debugging. It opens the store
// read-only so it can run next to a live server.
func main() {
	dbPath := flag.String("db", "/tmp/chat-relay", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, dm:, user:, channel:, read:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Timestamp", "Author", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				timestamp, author, detail := describe(rawKey, v)
				table.Append([]string{rawKey, timestamp, author, detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

// record covers the union of the stored layouts; cbor leaves the fields a
// given record doesn't carry at their zero values.
type record struct {
	Author   string `cbor:"author"`
	Sender   string `cbor:"sender"`
	Receiver string `cbor:"receiver"`
	Username string `cbor:"username"`
	Content  string `cbor:"content"`
	Name     string `cbor:"name"`
	At       int64  `cbor:"at"`
}

func describe(key string, value []byte) (timestamp, author, detail string) {
	var r record
	if err := cbor.Unmarshal(value, &r); err != nil {
		// Log the problem and keep scanning instead of stopping the dump.
		fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
		return "", "", ""
	}

	if r.At > 0 {
		timestamp = time.Unix(0, r.At).UTC().Format("15:04:05")
	}

	switch {
	case r.Author != "":
		author = r.Author
		detail = r.Content
	case r.Sender != "":
		author = r.Sender
		detail = fmt.Sprintf("-> %s: %s", r.Receiver, r.Content)
	case r.Username != "":
		author = r.Username
	case r.Name != "":
		detail = r.Name
	}
	return timestamp, author, detail
}
