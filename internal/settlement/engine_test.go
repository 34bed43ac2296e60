package settlement

import (
	"errors"
	"testing"
	"time"

	"github.com/tvanh/huiledger/internal/models"
)

var now = time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

func testGroup() *models.Group {
	return &models.Group{
		ID:              "g1",
		Name:            "Lunch circle",
		TotalMembers:    3,
		AmountPerPeriod: 100,
		PeriodType:      models.PeriodMonthly,
		Status:          models.GroupActive,
		CurrentPeriod:   0,
	}
}

func testMembers() []*models.Member {
	return []*models.Member{
		{ID: "m1", GroupID: "g1", Name: "An", Order: 1},
		{ID: "m2", GroupID: "g1", Name: "Binh", Order: 2},
		{ID: "m3", GroupID: "g1", Name: "Chi", Order: 3},
	}
}

func testPeriod(n int) *models.Period {
	return &models.Period{
		ID:           "p1",
		GroupID:      "g1",
		PeriodNumber: n,
		Date:         time.Date(2024, time.Month(n), 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:  300,
		Status:       models.PeriodPending,
	}
}

func TestSettleFirstPeriod(t *testing.T) {
	group := testGroup()
	members := testMembers()
	period := testPeriod(1)

	res, err := Settle(group, members, period, "m1", 30, now)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	if res.Period.WinnerID != "m1" || res.Period.WinnerName != "An" {
		t.Errorf("winner = %s/%s, want m1/An", res.Period.WinnerID, res.Period.WinnerName)
	}
	if res.Period.BidAmount != 30 {
		t.Errorf("bid = %d, want 30", res.Period.BidAmount)
	}
	if res.Period.Status != models.PeriodCompleted {
		t.Errorf("status = %s, want completed", res.Period.Status)
	}
	if res.Period.CompletedAt != now.Unix() {
		t.Errorf("completedAt = %d, want %d", res.Period.CompletedAt, now.Unix())
	}

	if !res.Winner.HasReceived {
		t.Error("winner not marked as received")
	}
	if res.Winner.ReceivedPeriod != 1 {
		t.Errorf("receivedPeriod = %d, want 1", res.Winner.ReceivedPeriod)
	}

	if res.Group.CurrentPeriod != 1 {
		t.Errorf("currentPeriod = %d, want 1", res.Group.CurrentPeriod)
	}

	// Nobody has received yet, so both non-winners owe the full amount.
	if len(res.Payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(res.Payments))
	}
	for _, p := range res.Payments {
		if p.MemberID == "m1" {
			t.Error("winner received a payment obligation")
		}
		if p.Amount != 100 {
			t.Errorf("payment for %s = %d, want 100", p.MemberName, p.Amount)
		}
		if p.Status != models.PaymentPending {
			t.Errorf("payment status = %s, want pending", p.Status)
		}
		if !p.DueDate.Equal(period.Date) {
			t.Errorf("due date = %v, want %v", p.DueDate, period.Date)
		}
		if p.PeriodID != "p1" || p.GroupID != "g1" {
			t.Errorf("payment keys = %s/%s, want p1/g1", p.PeriodID, p.GroupID)
		}
	}
}

func TestSettleSecondPeriodRebatesPriorWinner(t *testing.T) {
	group := testGroup()
	group.CurrentPeriod = 1
	members := testMembers()
	members[0].HasReceived = true
	members[0].ReceivedPeriod = 1
	period := testPeriod(2)
	period.ID = "p2"

	res, err := Settle(group, members, period, "m2", 20, now)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	// Bonus = 20/2 = 10. An already received, so owes 90; Chi has not,
	// so still owes the full 100.
	byMember := map[string]int64{}
	for _, p := range res.Payments {
		byMember[p.MemberID] = p.Amount
	}
	if len(byMember) != 2 {
		t.Fatalf("got %d payments, want 2", len(byMember))
	}
	if byMember["m1"] != 90 {
		t.Errorf("prior winner owes %d, want 90", byMember["m1"])
	}
	if byMember["m3"] != 100 {
		t.Errorf("waiting member owes %d, want 100", byMember["m3"])
	}
}

func TestSettlePaymentSum(t *testing.T) {
	// Σ amounts = (n-1-k)·A + k·(A - B/(n-1)) where k counts non-winner
	// members who already received.
	group := testGroup()
	group.TotalMembers = 5
	members := []*models.Member{
		{ID: "m1", GroupID: "g1", Name: "An", HasReceived: true, ReceivedPeriod: 1},
		{ID: "m2", GroupID: "g1", Name: "Binh", HasReceived: true, ReceivedPeriod: 2},
		{ID: "m3", GroupID: "g1", Name: "Chi"},
		{ID: "m4", GroupID: "g1", Name: "Dung"},
		{ID: "m5", GroupID: "g1", Name: "Em"},
	}
	period := testPeriod(3)

	res, err := Settle(group, members, period, "m3", 40, now)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	// bonus = 40/4 = 10; k = 2 prior winners owe 90 each, 2 waiting
	// members owe 100 each.
	var sum int64
	for _, p := range res.Payments {
		sum += p.Amount
	}
	if want := int64(2*100 + 2*90); sum != want {
		t.Errorf("payment sum = %d, want %d", sum, want)
	}
}

func TestSettleRoundsHalfAwayFromZero(t *testing.T) {
	group := testGroup()
	members := testMembers()
	members[0].HasReceived = true
	members[0].ReceivedPeriod = 1
	period := testPeriod(2)

	// bonus = 25/2 = 12.5, so the prior winner owes 87.5 which rounds up
	// to 88.
	res, err := Settle(group, members, period, "m2", 25, now)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	for _, p := range res.Payments {
		if p.MemberID == "m1" && p.Amount != 88 {
			t.Errorf("rounded amount = %d, want 88", p.Amount)
		}
	}
}

func TestSettleRejectsCompletedPeriod(t *testing.T) {
	period := testPeriod(1)
	period.Status = models.PeriodCompleted

	_, err := Settle(testGroup(), testMembers(), period, "m1", 0, now)
	if !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("err = %v, want ErrAlreadySettled", err)
	}
}

func TestSettleAcceptsBiddingPeriod(t *testing.T) {
	period := testPeriod(1)
	period.Status = models.PeriodBidding

	if _, err := Settle(testGroup(), testMembers(), period, "m1", 10, now); err != nil {
		t.Errorf("Settle on bidding period failed: %v", err)
	}
}

func TestSettleRejectsUnknownWinner(t *testing.T) {
	_, err := Settle(testGroup(), testMembers(), testPeriod(1), "ghost", 0, now)
	if !errors.Is(err, ErrWinnerNotFound) {
		t.Errorf("err = %v, want ErrWinnerNotFound", err)
	}

	// A member ID from a different group must not resolve either.
	members := testMembers()
	members[1].GroupID = "other"
	_, err = Settle(testGroup(), members, testPeriod(1), "m2", 0, now)
	if !errors.Is(err, ErrWinnerNotFound) {
		t.Errorf("cross-group winner: err = %v, want ErrWinnerNotFound", err)
	}
}

func TestSettleRejectsNegativeBid(t *testing.T) {
	_, err := Settle(testGroup(), testMembers(), testPeriod(1), "m1", -1, now)
	if !errors.Is(err, ErrNegativeBid) {
		t.Errorf("err = %v, want ErrNegativeBid", err)
	}
}

func TestSettleDoesNotMutateInputs(t *testing.T) {
	group := testGroup()
	members := testMembers()
	period := testPeriod(1)

	if _, err := Settle(group, members, period, "m1", 30, now); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	if period.Status != models.PeriodPending || period.WinnerID != "" {
		t.Error("input period was mutated")
	}
	if members[0].HasReceived {
		t.Error("input member was mutated")
	}
	if group.CurrentPeriod != 0 {
		t.Error("input group was mutated")
	}
}

func TestSettleKeepsExistingReceivedPeriod(t *testing.T) {
	// ReceivedPeriod is written exactly once; a winner re-selected by a
	// misbehaving caller must not have it overwritten.
	members := testMembers()
	members[0].HasReceived = true
	members[0].ReceivedPeriod = 1

	res, err := Settle(testGroup(), members, testPeriod(2), "m1", 0, now)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if res.Winner.ReceivedPeriod != 1 {
		t.Errorf("receivedPeriod = %d, want 1", res.Winner.ReceivedPeriod)
	}
}
