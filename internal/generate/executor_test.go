package generate

import (
	"context"
	"testing"
	"time"

	"github.com/handiism/jimeng-imagegen/internal/model"
)

func testExecutor(client *fakeClient, fetcher *fakeFetcher) *Executor {
	return NewExecutor(Options{
		PollInterval: time.Millisecond,
		NewClient:    func(string, string) JobClient { return client },
		Fetcher:      fetcher,
	})
}

func TestExecutor_StartAndWait(t *testing.T) {
	client := &fakeClient{taskID: "bg", statuses: []model.JobStatus{pending(), done("https://img/0.jpg")}}
	fetcher := &fakeFetcher{data: map[string][]byte{"https://img/0.jpg": []byte("x")}}
	log := &eventLog{}

	h := testExecutor(client, fetcher).Start(context.Background(), testSettings(t), "a cat", log.add)
	if h.RunID == "" {
		t.Fatal("handle has no RunID")
	}

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	out := h.Wait()
	if out.State != StateCompleted || out.Saved != 1 {
		t.Fatalf("outcome = %v saved %d (%v)", out.State, out.Saved, out.Err)
	}
	if out.RunID != h.RunID {
		t.Errorf("outcome RunID = %q, handle RunID = %q", out.RunID, h.RunID)
	}
	for _, ev := range log.all() {
		if ev.RunID != h.RunID {
			t.Errorf("event from another run: %+v", ev)
		}
	}
}

func TestExecutor_StreamClosesAfterLastEvent(t *testing.T) {
	client := &fakeClient{taskID: "s", statuses: []model.JobStatus{done("https://img/0.jpg")}}
	fetcher := &fakeFetcher{data: map[string][]byte{"https://img/0.jpg": []byte("x")}}

	events, h := testExecutor(client, fetcher).Stream(context.Background(), testSettings(t), "a cat")

	var last Event
	count := 0
	for ev := range events {
		last = ev
		count++
	}

	if count == 0 {
		t.Fatal("no events streamed")
	}
	if last.State != StateCompleted {
		t.Errorf("last event state = %v, want completed", last.State)
	}

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("handle not done after stream closed")
	}
	if out := h.Wait(); out.State != StateCompleted {
		t.Errorf("outcome = %v", out.State)
	}
}

func TestExecutor_StreamFailure(t *testing.T) {
	events, h := testExecutor(&fakeClient{}, &fakeFetcher{}).Stream(context.Background(), testSettings(t), "   ")

	var last Event
	for ev := range events {
		last = ev
	}
	if last.State != StateFailed || last.Level != LevelError {
		t.Errorf("last event = %+v, want failed error event", last)
	}
	if model.KindOf(h.Wait().Err) != model.KindValidation {
		t.Errorf("Err = %v", h.Wait().Err)
	}
}

func TestExecutor_IndependentRuns(t *testing.T) {
	ex := testExecutor(&fakeClient{taskID: "a"}, &fakeFetcher{})

	first := ex.Start(context.Background(), testSettings(t), "", nil)
	second := ex.Start(context.Background(), testSettings(t), "", nil)

	if first.RunID == second.RunID {
		t.Error("runs share a RunID")
	}
	first.Wait()
	second.Wait()
}
