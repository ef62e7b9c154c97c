package chat_test

import (
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/omochice/wstest/internal/chat"
)

func TestLog_Append(t *testing.T) {
	log := chat.NewLog()

	log.Append(chat.Entry{Author: chat.AuthorOperator, Content: "hello"})
	log.Append(chat.Entry{Author: chat.AuthorPeer, Content: "hi"})

	got := log.Snapshot()
	want := []chat.Entry{
		{Author: chat.AuthorOperator, Content: "hello"},
		{Author: chat.AuthorPeer, Content: "hi"},
	}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLog_SnapshotIsCopy(t *testing.T) {
	log := chat.NewLog()
	log.Append(chat.Entry{Author: chat.AuthorPeer, Content: "one"})

	snap := log.Snapshot()
	snap[0].Content = "changed"

	if got := log.Snapshot()[0].Content; got != "one" {
		t.Errorf("log entry modified through snapshot: got %q", got)
	}
}

func TestLog_Clear(t *testing.T) {
	log := chat.NewLog()
	log.Append(chat.Entry{Author: chat.AuthorPeer, Content: "old"})

	log.Clear()

	if got := log.Len(); got != 0 {
		t.Fatalf("Len() after Clear() = %d, want 0", got)
	}

	log.Append(chat.Entry{Author: chat.AuthorPeer, Content: "new"})
	snap := log.Snapshot()
	if len(snap) != 1 || snap[0].Content != "new" {
		t.Errorf("Snapshot() after Clear() and Append() = %+v", snap)
	}
}

func TestLog_ConcurrentAppendKeepsPerSourceOrder(t *testing.T) {
	log := chat.NewLog()
	const perSource = 500

	var wg sync.WaitGroup
	for _, author := range []chat.Author{chat.AuthorOperator, chat.AuthorPeer} {
		wg.Add(1)
		go func(author chat.Author) {
			defer wg.Done()
			for i := 0; i < perSource; i++ {
				log.Append(chat.Entry{Author: author, Content: strconv.Itoa(i)})
			}
		}(author)
	}
	wg.Wait()

	snap := log.Snapshot()
	if len(snap) != 2*perSource {
		t.Fatalf("Snapshot() len = %d, want %d", len(snap), 2*perSource)
	}

	next := map[chat.Author]int{}
	for _, entry := range snap {
		n, err := strconv.Atoi(entry.Content)
		if err != nil {
			t.Fatalf("unexpected content %q", entry.Content)
		}
		if n != next[entry.Author] {
			t.Fatalf("%s entry %d out of order, want %d", entry.Author, n, next[entry.Author])
		}
		next[entry.Author]++
	}
}

func TestEntry_String(t *testing.T) {
	tests := []struct {
		entry chat.Entry
		want  string
	}{
		{chat.Entry{Author: chat.AuthorOperator, Content: "hello"}, "Operator: hello"},
		{chat.Entry{Author: chat.AuthorPeer, Content: "hello"}, "Peer: hello"},
		{chat.Entry{Author: chat.Author(9), Content: "x"}, "Unknown: x"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.entry.Author), func(t *testing.T) {
			if got := tt.entry.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
