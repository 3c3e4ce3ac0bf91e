package form

import "github.com/azeruya/autoletter/pkg/schema"

// Widget identifies the input representation a field renders as. The set is
// closed; renderers switch on these names only.
type Widget string

const (
	WidgetTextInput   Widget = "text-input"
	WidgetTextArea    Widget = "textarea"
	WidgetDatePicker  Widget = "date-picker"
	WidgetEmailInput  Widget = "email-input"
	WidgetTelInput    Widget = "tel-input"
	WidgetNumberInput Widget = "number-input"
)

// widgetTable is the total mapping from field type to widget. Every declared
// schema.FieldType must have an entry; the exhaustiveness test keeps it
// honest. Unknown types fall back to a single-line text input.
var widgetTable = map[schema.FieldType]Widget{
	schema.FieldTypeText:     WidgetTextInput,
	schema.FieldTypeTextarea: WidgetTextArea,
	schema.FieldTypeDate:     WidgetDatePicker,
	schema.FieldTypeEmail:    WidgetEmailInput,
	schema.FieldTypeTel:      WidgetTelInput,
	schema.FieldTypeNumber:   WidgetNumberInput,
}

// KnownFieldTypes lists every field type the widget table covers, in a stable
// order. Exposed so tests and renderers can assert coverage.
func KnownFieldTypes() []schema.FieldType {
	return []schema.FieldType{
		schema.FieldTypeText,
		schema.FieldTypeTextarea,
		schema.FieldTypeDate,
		schema.FieldTypeEmail,
		schema.FieldTypeTel,
		schema.FieldTypeNumber,
	}
}

// WidgetFor resolves the widget for a field type. The mapping is total: any
// unrecognized type yields the text input fallback, never a failure.
func WidgetFor(t schema.FieldType) Widget {
	if w, ok := widgetTable[t]; ok {
		return w
	}
	return WidgetTextInput
}
