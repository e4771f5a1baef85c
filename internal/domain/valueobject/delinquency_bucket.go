package valueobject

import "fmt"

// DelinquencyBucket is the ageing band a loan falls into by days past due.
type DelinquencyBucket struct {
	value string
}

const (
	bucketCurrent = "CURRENT"
	bucket1To30   = "1-30"
	bucket31To60  = "31-60"
	bucket61To90  = "61-90"
	bucket90Plus  = "90+"
)

var (
	BucketCurrent = DelinquencyBucket{value: bucketCurrent}
	Bucket1To30   = DelinquencyBucket{value: bucket1To30}
	Bucket31To60  = DelinquencyBucket{value: bucket31To60}
	Bucket61To90  = DelinquencyBucket{value: bucket61To90}
	Bucket90Plus  = DelinquencyBucket{value: bucket90Plus}
)

var validBuckets = map[string]DelinquencyBucket{
	bucketCurrent: BucketCurrent,
	bucket1To30:   Bucket1To30,
	bucket31To60:  Bucket31To60,
	bucket61To90:  Bucket61To90,
	bucket90Plus:  Bucket90Plus,
}

// NewDelinquencyBucket creates a DelinquencyBucket from a raw string.
func NewDelinquencyBucket(s string) (DelinquencyBucket, error) {
	v, ok := validBuckets[s]
	if !ok {
		return DelinquencyBucket{}, fmt.Errorf("invalid delinquency bucket: %q", s)
	}
	return v, nil
}

// BucketForDPD maps days past due onto its ageing band. Negative values
// are treated as zero.
func BucketForDPD(dpd int) DelinquencyBucket {
	switch {
	case dpd <= 0:
		return BucketCurrent
	case dpd <= 30:
		return Bucket1To30
	case dpd <= 60:
		return Bucket31To60
	case dpd <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

// String returns the string representation.
func (b DelinquencyBucket) String() string { return b.value }

// IsZero returns true when not initialised.
func (b DelinquencyBucket) IsZero() bool { return b.value == "" }

// Equal returns true when both buckets match.
func (b DelinquencyBucket) Equal(other DelinquencyBucket) bool { return b.value == other.value }
