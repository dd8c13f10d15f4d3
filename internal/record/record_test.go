package record_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cwbudde/algo-imd/imd"
	"github.com/cwbudde/algo-imd/internal/record"
)

var _ = Describe("Recorder", func() {
	var (
		dir      string
		recorder *record.Recorder
		freqs    []float64
		products imd.Products
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()

		var err error
		recorder, err = record.New(filepath.Join(dir, "products"))
		Expect(err).NotTo(HaveOccurred())

		freqs = []float64{100, 110.5}

		e, err := imd.New(freqs)
		Expect(err).NotTo(HaveOccurred())

		products, err = e.Calculate(3)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(recorder.Close()).To(Succeed())
	})

	It("should add the sqlite3 suffix to the file name", func() {
		Expect(recorder.Path()).To(Equal(filepath.Join(dir, "products.sqlite3")))

		_, err := os.Stat(recorder.Path())
		Expect(err).NotTo(HaveOccurred())
	})

	It("should round-trip products in enumeration order", func() {
		id, err := recorder.Record(3, freqs, products)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeEmpty())

		got, err := recorder.Products(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(products))
	})

	It("should list run metadata", func() {
		id, err := recorder.Record(3, freqs, products)
		Expect(err).NotTo(HaveOccurred())

		runs, err := recorder.Runs()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ID).To(Equal(id))
		Expect(runs[0].Order).To(Equal(3))
		Expect(runs[0].Frequencies).To(Equal(freqs))
		Expect(runs[0].ProductCount).To(Equal(len(products)))
		Expect(runs[0].CreatedAt.IsZero()).To(BeFalse())
	})

	It("should keep runs apart", func() {
		first, err := recorder.Record(3, freqs, products)
		Expect(err).NotTo(HaveOccurred())

		second, err := recorder.Record(3, freqs, products[:1])
		Expect(err).NotTo(HaveOccurred())
		Expect(second).NotTo(Equal(first))

		got, err := recorder.Products(second)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(1))
	})

	It("should record an empty run", func() {
		id, err := recorder.Record(3, []float64{100}, imd.Products{})
		Expect(err).NotTo(HaveOccurred())

		got, err := recorder.Products(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeEmpty())
	})

	It("should report unknown runs", func() {
		_, err := recorder.Products("missing")
		Expect(err).To(MatchError(record.ErrUnknownRun))
	})

	It("should allow closing twice", func() {
		Expect(recorder.Close()).To(Succeed())
		Expect(recorder.Close()).To(Succeed())
	})
})
