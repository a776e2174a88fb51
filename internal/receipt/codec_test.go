package receipt

import "testing"

const finalReply = `Great, here's your total. ORDER_RECEIPT_START {"items":[{"name":"Latte","size":"medium","milk":"oat milk","price":6.25,"quantity":1}],"total":6.25} ORDER_RECEIPT_END`

func TestExtractWellFormedBlock(t *testing.T) {
	rec, ok := Extract(finalReply)
	if !ok {
		t.Fatal("expected a receipt")
	}
	if len(rec.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(rec.Items))
	}
	if rec.Items[0].Name != "Latte" {
		t.Fatalf("unexpected item name: %s", rec.Items[0].Name)
	}
	if rec.Total != 6.25 {
		t.Fatalf("unexpected total: %v", rec.Total)
	}
}

func TestExtractNoBlock(t *testing.T) {
	if _, ok := Extract("What size would you like?"); ok {
		t.Fatal("expected no receipt for a mid-conversation reply")
	}
}

func TestExtractMalformedBlock(t *testing.T) {
	reply := "Done! ORDER_RECEIPT_START {not json at all ORDER_RECEIPT_END"
	if _, ok := Extract(reply); ok {
		t.Fatal("malformed block should fail softly")
	}
}

func TestExtractEmptyItems(t *testing.T) {
	reply := `ORDER_RECEIPT_START {"items":[],"total":0} ORDER_RECEIPT_END`
	if _, ok := Extract(reply); ok {
		t.Fatal("receipt with no items should be rejected")
	}
}

func TestExtractNegativePrice(t *testing.T) {
	reply := `ORDER_RECEIPT_START {"items":[{"name":"Latte","price":-1,"quantity":1}],"total":-1} ORDER_RECEIPT_END`
	if _, ok := Extract(reply); ok {
		t.Fatal("negative price should be rejected")
	}
}

func TestExtractDefaultsQuantity(t *testing.T) {
	reply := `ORDER_RECEIPT_START {"items":[{"name":"Tea","price":3.5}],"total":3.5} ORDER_RECEIPT_END`
	rec, ok := Extract(reply)
	if !ok {
		t.Fatal("expected a receipt")
	}
	if rec.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity default of 1, got %d", rec.Items[0].Quantity)
	}
}

func TestExtractFirstOfTwoBlocks(t *testing.T) {
	reply := `ORDER_RECEIPT_START {"items":[{"name":"Latte","price":5.5,"quantity":1}],"total":5.5} ORDER_RECEIPT_END` +
		` and again ORDER_RECEIPT_START {"items":[{"name":"Tea","price":3.5,"quantity":1}],"total":3.5} ORDER_RECEIPT_END`
	rec, ok := Extract(reply)
	if !ok {
		t.Fatal("expected a receipt")
	}
	if rec.Items[0].Name != "Latte" {
		t.Fatalf("expected the first block to win, got %s", rec.Items[0].Name)
	}
}

func TestStripRemovesBlockAndMarkup(t *testing.T) {
	got := Strip(finalReply)
	want := "Great, here's your total."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = Strip("*Extra* _shot_ it is!")
	if got != "Extra shot it is!" {
		t.Fatalf("markup not stripped: %q", got)
	}
}

func TestStripWithoutBlockIsTrimOnly(t *testing.T) {
	if got := Strip("  What size would you like?  "); got != "What size would you like?" {
		t.Fatalf("unexpected strip result: %q", got)
	}
}

func TestStripIdempotent(t *testing.T) {
	once := Strip(finalReply)
	twice := Strip(once)
	if once != twice {
		t.Fatalf("strip not idempotent: %q vs %q", once, twice)
	}
}
