package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

// BusinessFields is the structured result of an oracle extraction. Missing
// fields come back as empty strings.
type BusinessFields struct {
	Name          string `json:"Business Name"`
	Type          string `json:"Business Type"`
	Address       string `json:"Address"`
	Phone         string `json:"Phone Number"`
	Email         string `json:"Email"`
	Website       string `json:"Website"`
	OpeningTime   string `json:"Opening Time"`
	ClosingTime   string `json:"Closing Time"`
	BusinessHours string `json:"Business Hours"`
}

const extractPromptFormat = `Extract the following business details from the text below. Return a JSON object with these keys: Business Name, Business Type, Address, Phone Number, Email, Website, Opening Time, Closing Time, Business Hours.

For Opening Time and Closing Time, extract the standard opening and closing hours for today or the most typical day if today's hours aren't specified.

For Business Hours, extract the complete weekly schedule in a standardized format with each day of the week, like this:
"Monday: 9:00 AM - 5:00 PM; Tuesday: 9:00 AM - 5:00 PM; Wednesday: 9:00 AM - 5:00 PM; Thursday: 9:00 AM - 5:00 PM; Friday: 9:00 AM - 5:00 PM; Saturday: 10:00 AM - 3:00 PM; Sunday: Closed"

Include all seven days of the week if available. For days when the business is closed, use "Closed". For businesses open 24 hours, use "Open 24 hours". If hours for a specific day are unknown, use "Hours not available".

If a field is missing from the text, use an empty string.

Text:
%s`

// jsonObject grabs the first {...} block in the completion, spanning lines.
var jsonObject = regexp.MustCompile(`(?s)\{.*?\}`)

// ExtractFields asks the model for the structured fields of one business
// card. A completion that carries no parseable JSON object is a soft
// failure: (nil, nil), and the caller falls back to manual extraction.
// Only transport-level failures surface as errors.
func ExtractFields(ctx context.Context, c Client, rawText string) (*BusinessFields, error) {
	text, err := c.GenerateContent(ctx, fmt.Sprintf(extractPromptFormat, rawText))
	if err != nil {
		return nil, err
	}

	blob := jsonObject.FindString(text)
	if blob == "" {
		zap.L().Debug("oracle completion carried no JSON object", zap.Int("len", len(text)))
		return nil, nil
	}

	var fields BusinessFields
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		zap.L().Debug("oracle JSON failed to parse", zap.Error(err))
		return nil, nil
	}
	return &fields, nil
}
