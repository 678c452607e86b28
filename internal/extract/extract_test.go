package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
)

func lines(l ...string) string { return strings.Join(l, "\n") }

func TestSet_Extract(t *testing.T) {
	set := NewSet(nil, nil)

	tests := []struct {
		name    string
		docType constants.DocumentType
		text    string
		want    entity.FieldMap
	}{
		{
			name:    "paystub without employer",
			docType: constants.Paystub,
			text: lines(
				"EARNINGS STATEMENT",
				"EMPLOYEE NAME/ADDRESS:",
				"John Smith",
				"123 Main St",
				"NET PAY 4,198.46",
			),
			want: entity.NewFieldMap("Employee_Name", "John Smith", "Net_Pay", "4,198.46"),
		},
		{
			name:    "paystub same line labels and dollar sign",
			docType: constants.Paystub,
			text: lines(
				"EMPLOYER NAME/ADDRESS: Acme Widgets Inc",
				"EMPLOYEE NAME/ADDRESS:",
				"   ",
				"Jane Roe",
				"NET PAY: $ 1,000.00",
			),
			want: entity.NewFieldMap("Employer_Name", "Acme Widgets Inc", "Employee_Name", "Jane Roe", "Net_Pay", "1,000.00"),
		},
		{
			name:    "driving license",
			docType: constants.DrivingLicense,
			text: lines(
				"ARIZONA",
				"DRIVER LICENSE",
				"DLN D08954796",
				"DOB 01/20/1974",
				"EXP 01/20/2030",
				"SAMPLE JELANI",
			),
			want: entity.NewFieldMap("DL_number", "D08954796", "DOB", "01/20/1974", "Name", "Sample Jelani"),
		},
		{
			name:    "driving license fallbacks",
			docType: constants.DrivingLicense,
			text: lines(
				"USA VETERAN",
				"Issued 03/04/2015 B1234567",
			),
			want: entity.NewFieldMap("DL_number", "B1234567", "DOB", "03/04/2015"),
		},
		{
			name:    "w2 with OCR-damaged year",
			docType: constants.W2,
			text: lines(
				"b Employer identification number (EIN)",
				"12-3456789",
				"c Employer's name, address, and ZIP code",
				"2O23",
			),
			want: entity.NewFieldMap("EIN", "12-3456789", "Year", "2023"),
		},
		{
			name:    "w2 full",
			docType: constants.W2,
			text: lines(
				"Form W-2 Wage and Tax Statement 2022",
				"b Employer identification number (EIN) 78-8778788",
				"e Employee's first name and initial Last name",
				"Maria Lopez",
				"f Employee's address and ZIP code",
				"Springfield Road",
				"Copy B 2023",
			),
			want: entity.NewFieldMap("EIN", "78-8778788", "Year", "2023", "Employee_Name", "Maria Lopez"),
		},
		{
			name:    "passport from MRZ",
			docType: constants.Passport,
			text: lines(
				"PASSPORT",
				"P<USASMITH<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<",
				"123456789USA8001014M3001012<<<<<<<<<<<<<<06",
			),
			want: entity.NewFieldMap("Country", "USA", "Passport_number", "123456789", "Name", "John Smith"),
		},
		{
			name:    "passport with malformed MRZ falls back to line scan",
			docType: constants.Passport,
			text: lines(
				"UNITED STATES OF AMERICA",
				"PASSPORT",
				"JOHN SMITH",
				"P<USASMITH",
				"Passport No. 987654321",
			),
			want: entity.NewFieldMap("Country", "USA", "Passport_number", "987654321", "Name", "John Smith"),
		},
		{
			name:    "flood certificate",
			docType: constants.FloodCertificate,
			text: lines(
				"STANDARD FLOOD HAZARD DETERMINATION FORM",
				"Borrower: KIRSHENBAUM, AHARON",
				"Customer Number 0012345",
				"Expires: 09-30-2023",
			),
			want: entity.NewFieldMap("Borrower_name", "Kirshenbaum, Aharon", "Customer_No", "0012345", "Expire_date", "09-30-2023"),
		},
		{
			name:    "flood certificate alternate labels",
			docType: constants.FloodCertificate,
			text: lines(
				"FLOOD HAZARD DETERMINATION",
				"Borrowers Name: JANE DOE",
				"Customer No.: 98765",
				"Expiration Date: 10/15/2024",
			),
			want: entity.NewFieldMap("Borrower_name", "Jane Doe", "Customer_No", "98765", "Expire_date", "10/15/2024"),
		},
		{
			name:    "flood certificate section heading is not a borrower",
			docType: constants.FloodCertificate,
			text: lines(
				"BORROWER INFORMATION",
				"Customer No. 42",
			),
			want: entity.NewFieldMap("Customer_No", "42"),
		},
		{
			name:    "w2 bare ein without label",
			docType: constants.W2,
			text: lines(
				"Wage and Tax Statement",
				"ACME WIDGETS 45-6789012",
				"2021",
			),
			want: entity.NewFieldMap("EIN", "45-6789012", "Year", "2021"),
		},
		{
			name:    "passport mrz followed by plain ocr line",
			docType: constants.Passport,
			text: lines(
				"P<USASMITH<<JOHN",
				"DOCUMENT 123456789",
			),
			want: entity.NewFieldMap("Country", "USA", "Passport_number", "123456789", "Name", "John Smith"),
		},
		{
			name:    "passport mrz labelled line",
			docType: constants.Passport,
			text: lines(
				"P<USASMITH<<JOHN",
				"PASSPORT NO 123456789",
			),
			want: entity.NewFieldMap("Country", "USA", "Passport_number", "123456789", "Name", "John Smith"),
		},
		{
			name:    "passport issued outside the us",
			docType: constants.Passport,
			text: lines(
				"PASSPORT",
				"P<GBRDOE<<JANE<<<<<<<<<<<<",
				"PASSPORT NO 512345678",
			),
			want: entity.NewFieldMap("Country", "GBR", "Passport_number", "512345678", "Name", "Jane Doe"),
		},
		{
			name:    "other has no fields",
			docType: constants.Other,
			text:    "lorem ipsum",
			want:    entity.FieldMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Extract(tt.docType, tt.text)
			assert.Equal(t, tt.want.Keys(), got.Keys())
			assert.Equal(t, tt.want.ToMap(), got.ToMap())
		})
	}
}

func TestSet_ValuesAreNeverEmpty(t *testing.T) {
	set := NewSet(nil, nil)
	noisy := []string{
		"",
		"EMPLOYER NAME/ADDRESS:\n   \nNET PAY",
		"Borrower:   \nCustomer Number\nExpires: ",
		"P<\n\n",
		"Employer identification number\n",
		"DLN\nDOB",
	}

	for _, docType := range constants.AllDocumentTypes() {
		for _, text := range noisy {
			fields := set.Extract(docType, text)
			fields.Each(func(name, value string) {
				assert.NotEmpty(t, strings.TrimSpace(value), "%s/%s from %q", docType, name, text)
			})
		}
	}
}

func TestSet_Deterministic(t *testing.T) {
	set := NewSet(nil, nil)
	text := "DLN D08954796\nDOB 01/20/1974\nSAMPLE JELANI"

	first := set.Extract(constants.DrivingLicense, text)
	second := set.Extract(constants.DrivingLicense, text)
	assert.True(t, first.Equal(second))
}

func TestValidator(t *testing.T) {
	v, err := NewValidator(nil)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(constants.W2, entity.NewFieldMap("EIN", "12-3456789")))
	assert.NoError(t, v.Validate(constants.Other, entity.FieldMap{}))

	assert.Error(t, v.Validate(constants.W2, entity.NewFieldMap("EIN", "")))
	assert.Error(t, v.Validate(constants.W2, entity.NewFieldMap("Net_Pay", "1.00")))
	assert.Error(t, v.Validate(constants.Other, entity.NewFieldMap("Name", "x")))
}
