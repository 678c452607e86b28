package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/common"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/ocr"
)

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) Save(ctx context.Context, rec *entity.ProcessedRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type mockTextExtractor struct {
	mock.Mock
}

func (m *mockTextExtractor) Extract(ctx context.Context, path string) (ocr.ExtractionResult, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(ocr.ExtractionResult), args.Error(1)
}

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("EST", -5*3600))

func newTestProcessor(t *testing.T, saver RecordSaver, tx TextExtractor) *Processor {
	t.Helper()
	var stage *OCRStage
	if tx != nil {
		stage = NewOCRStage(tx, nil)
	}
	p, err := NewProcessor(nil, saver, stage,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() uuid.UUID { return uuid.MustParse("6f1c1f8e-2a7a-4f0e-9a55-7e0f8b0c2d11") }),
	)
	require.NoError(t, err)
	return p
}

func TestProcess_PaystubScenario(t *testing.T) {
	saver := new(mockSaver)
	saver.On("Save", mock.Anything, mock.AnythingOfType("*entity.ProcessedRecord")).Return(nil).Once()
	p := newTestProcessor(t, saver, nil)

	text := "EMPLOYEE NAME/ADDRESS:\nJohn Smith\n100 Elm St\nNET PAY 4,198.46\n"
	rec, err := p.Process(context.Background(), text, "stub.png")
	require.NoError(t, err)

	assert.Equal(t, constants.Paystub, rec.DocumentType)
	assert.Equal(t, "stub.png", rec.SourceIdentifier)
	assert.Equal(t, []string{"Employee_Name", "Net_Pay"}, rec.Fields.Keys())
	assert.Equal(t, map[string]string{"Employee_Name": "John Smith", "Net_Pay": "4,198.46"}, rec.Fields.ToMap())
	assert.Equal(t, fixedNow.UTC(), rec.ProcessedAt)
	assert.Equal(t, time.UTC, rec.ProcessedAt.Location())

	saved := saver.Calls[0].Arguments.Get(1).(*entity.ProcessedRecord)
	assert.Same(t, rec, saved)
	saver.AssertExpectations(t)
}

func TestProcess_Scenarios(t *testing.T) {
	p := newTestProcessor(t, nil, nil)

	tests := []struct {
		name   string
		text   string
		want   constants.DocumentType
		fields map[string]string
	}{
		{
			name:   "passport mrz",
			text:   "P<USASMITH<<JOHN<<<<<<<<<<<<\n123456789USA8001014M3001012<<<<<<<06",
			want:   constants.Passport,
			fields: map[string]string{"Country": "USA", "Passport_number": "123456789", "Name": "John Smith"},
		},
		{
			name:   "w2 fuzzy year",
			text:   "Employer identification number\n12-3456789\n2O23",
			want:   constants.W2,
			fields: map[string]string{"EIN": "12-3456789", "Year": "2023"},
		},
		{
			name:   "unrecognized",
			text:   "lorem ipsum",
			want:   constants.Other,
			fields: map[string]string{},
		},
		{
			name:   "empty",
			text:   "",
			want:   constants.Other,
			fields: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Process(context.Background(), tt.text, "doc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.DocumentType)
			assert.Equal(t, tt.fields, rec.Fields.ToMap())
		})
	}
}

func TestProcess_Idempotent(t *testing.T) {
	p := newTestProcessor(t, nil, nil)
	text := "Form W-2\nEmployer identification number 98-7654321\n2022"

	a, err := p.Process(context.Background(), text, "a.pdf")
	require.NoError(t, err)
	b, err := p.Process(context.Background(), text, "a.pdf")
	require.NoError(t, err)

	assert.Equal(t, a.DocumentType, b.DocumentType)
	assert.True(t, a.Fields.Equal(b.Fields))
}

func TestProcess_SaveFailureReturnsRecord(t *testing.T) {
	saver := new(mockSaver)
	saver.On("Save", mock.Anything, mock.Anything).Return(common.ErrDatabase).Once()
	p := newTestProcessor(t, saver, nil)

	rec, err := p.Process(context.Background(), "PAYSTUB\nNET PAY 10.00", "x.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDatabase)
	require.NotNil(t, rec)
	assert.Equal(t, constants.Paystub, rec.DocumentType)
}

func TestProcessFile(t *testing.T) {
	tx := new(mockTextExtractor)
	tx.On("Extract", mock.Anything, "/in/license.jpg").
		Return(ocr.ExtractionResult{Text: "DRIVER LICENSE\nDLN D08954796\nDOB 01/20/1974", Method: "image-ocr", Confidence: 0.8}, nil).Once()
	saver := new(mockSaver)
	saver.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	p := newTestProcessor(t, saver, tx)
	rec, err := p.ProcessFile(context.Background(), "/in/license.jpg", "")
	require.NoError(t, err)

	assert.Equal(t, "license.jpg", rec.SourceIdentifier)
	assert.Equal(t, constants.DrivingLicense, rec.DocumentType)
	v, ok := rec.Fields.Get("DL_number")
	assert.True(t, ok)
	assert.Equal(t, "D08954796", v)
	tx.AssertExpectations(t)
	saver.AssertExpectations(t)
}

func TestProcessFile_Errors(t *testing.T) {
	tx := new(mockTextExtractor)
	tx.On("Extract", mock.Anything, "/in/broken.pdf").
		Return(ocr.ExtractionResult{}, errors.New("pdftoppm: exit status 1")).Once()
	p := newTestProcessor(t, nil, tx)

	_, err := p.ProcessFile(context.Background(), "/in/broken.pdf", "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOCR)

	_, err = p.ProcessFile(context.Background(), "/in/notes.txt", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	noOCR := newTestProcessor(t, nil, nil)
	_, err = noOCR.ProcessFile(context.Background(), "/in/a.png", "")
	assert.Error(t, err)
}
