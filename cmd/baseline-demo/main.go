// Command baseline-demo benchmarks a few standard library routines.
//
//	go run ./cmd/baseline-demo -b demo-baseline.json
package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/antoninbas/baseline"
	"github.com/antoninbas/baseline/bench"
)

var text = strings.Repeat("lorem ipsum dolor sit amet ", 200) + "needle"

func main() {
	baseline.Main(func(b *bench.Builder) {
		b.Compare("search", func() {
			re := regexp.MustCompile("needle")
			b.Test("strings.Index", func() { strings.Index(text, "needle") })
			b.Test("strings.Contains", func() { strings.Contains(text, "needle") })
			b.Test("regexp.MatchString", func() { re.MatchString(text) })
		})

		b.Suite("encoding", func() {
			type record struct {
				Name  string   `json:"name"`
				Tags  []string `json:"tags"`
				Count int      `json:"count"`
			}
			var payload []byte
			b.Before(func() error {
				var err error
				payload, err = json.Marshal(record{Name: "demo", Tags: []string{"a", "b", "c"}, Count: 42})
				return err
			})
			b.Test("json.Unmarshal", func() error {
				var r record
				return json.Unmarshal(payload, &r)
			})
			b.Test("sha256", func() { sha256.Sum256([]byte(text)) })
			b.TestSkip("gob", nil)
		})

		b.Suite("sort", func() {
			var data []int
			b.BeforeEach(func() {
				data = make([]int, 1000)
				for i := range data {
					data[i] = (i * 7919) % 1000
				}
			})
			b.TestN("sort.Ints", func(n int) {
				buf := make([]int, len(data))
				for k := 0; k < n; k++ {
					copy(buf, data)
					sort.Ints(buf)
				}
			})
		})

		b.Suite("async", func() {
			b.Test("timer", func(done bench.Done) {
				time.AfterFunc(time.Microsecond, func() { done(nil) })
			})
			b.Test("buffer", func(done bench.Done) {
				go func() {
					var buf bytes.Buffer
					buf.WriteString(text)
					done(nil)
				}()
			})
		})
	})
}
