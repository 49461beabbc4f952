// merkstress exercises a database end to end: it builds a table from
// random records, syncs a replica over the wire encoding and checks its
// commitment, then verifies an export of the source table.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"

	"github.com/merkdb/merkdb"
)

func key(i uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], i)
	return b[:]
}

func main() {
	rng := rand.New(rand.NewSource(1))

	db := merkdb.New()
	table := db.EmptyTable()

	records := make(map[uint64][]byte)

	for round := 0; round < 16; round++ {
		transaction := merkdb.NewTransaction()
		for i := 0; i < 1000; i++ {
			k := rng.Uint64() % 10000
			if _, ok := records[k]; ok {
				continue
			}
			value := make([]byte, 32)
			rng.Read(value)
			if err := transaction.Set(key(k), value); err != nil {
				fmt.Fprintln(os.Stderr, "set:", err)
				os.Exit(1)
			}
			records[k] = value
		}
		table.Execute(transaction)
	}

	fmt.Printf("built table: %d records, commitment %s\n", len(records), table.Commit())

	// A second identical table must not grow the store.
	clone := table.Clone()
	fmt.Printf("cloned table: commitment %s\n", clone.Commit())
	clone.Drop()

	// Sync into a fresh database through the wire encoding.
	replica := merkdb.New()
	sender := table.Send()
	receiver := replica.Receive()

	answer := sender.Hello()
	rounds, bytesMoved := 0, 0
	for {
		encoded, err := answer.MarshalBinary()
		if err != nil {
			fmt.Fprintln(os.Stderr, "marshal:", err)
			os.Exit(1)
		}
		bytesMoved += len(encoded)

		decoded := new(merkdb.Answer)
		if err := decoded.UnmarshalBinary(encoded); err != nil {
			fmt.Fprintln(os.Stderr, "unmarshal:", err)
			os.Exit(1)
		}

		received, question, err := receiver.Learn(decoded)
		if err != nil {
			fmt.Fprintln(os.Stderr, "learn:", err)
			os.Exit(1)
		}
		rounds++

		if received != nil {
			if received.Commit() != table.Commit() {
				fmt.Fprintln(os.Stderr, "replica commitment diverged")
				os.Exit(1)
			}
			fmt.Printf("synced replica: %d rounds, %d wire bytes, commitment %s\n",
				rounds, bytesMoved, received.Commit())
			break
		}

		if answer, err = sender.Answer(question); err != nil {
			fmt.Fprintln(os.Stderr, "answer:", err)
			os.Exit(1)
		}
	}
	sender.End().Drop()

	// Spot-check a few records through an export of the source table.
	keys := make([][]byte, 0, 16)
	for k := range records {
		keys = append(keys, key(k))
		if len(keys) == 16 {
			break
		}
	}

	tree, err := table.Export(keys)
	if err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
	if err := tree.Verify(); err != nil {
		fmt.Fprintln(os.Stderr, "verify:", err)
		os.Exit(1)
	}
	for _, k := range keys {
		value, err := tree.Get(k)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(1)
		}
		expected := records[binary.BigEndian.Uint64(k)]
		if !bytes.Equal(value, expected) {
			fmt.Fprintln(os.Stderr, "exported value diverged")
			os.Exit(1)
		}
	}

	fmt.Println("export verified")
}
