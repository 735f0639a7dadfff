package mcp

import "github.com/mark3labs/mcp-go/mcp"

var rangeDescription = "week (default: records at most 7 days old), month (30 days), all, or day"

var addToolDef = mcp.NewTool("record_add",
	mcp.WithDescription("Log a pelvic-floor therapy record. Only the fields of the chosen type are read; omitted fields take the form defaults. Without date and time the record is stamped now."),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Record type"),
		mcp.Enum("fluid-intake", "urination", "leakage", "urgency", "pad-use")),
	mcp.WithString("date", mcp.Description("DD/MM/YYYY; requires time")),
	mcp.WithString("time", mcp.Description("HH:MM; requires date")),
	mcp.WithNumber("ml", mcp.Description("fluid-intake: millilitres (default 250)"), mcp.Min(0)),
	mcp.WithString("drink_type",
		mcp.Description("fluid-intake: drink (default water)"),
		mcp.Enum("water", "coffee", "tea", "soda", "alcohol", "other")),
	mcp.WithString("amount",
		mcp.Description("urination: small, medium (default), large; leakage: drops, small (default), moderate, large"),
		mcp.Enum("drops", "small", "medium", "moderate", "large")),
	mcp.WithBoolean("arrived_on_time", mcp.Description("urination (default true)")),
	mcp.WithBoolean("complete_emptying", mcp.Description("urination (default true)")),
	mcp.WithString("circumstance",
		mcp.Description("leakage: what triggered it (default none)"),
		mcp.Enum("cough", "sneeze", "laugh", "exercise", "urgency", "none")),
	mcp.WithNumber("intensity", mcp.Description("leakage 1-5 (default 3), urgency 1-10 (default 5)"), mcp.Min(1), mcp.Max(10)),
	mcp.WithString("reached_bathroom",
		mcp.Description("urgency (default yes)"),
		mcp.Enum("yes", "no", "leakage")),
	mcp.WithString("warning_time",
		mcp.Description("urgency: seconds of warning (default 30-60)"),
		mcp.Enum("<10", "10-30", "30-60", ">60")),
	mcp.WithString("pad_type",
		mcp.Description("pad-use (default small)"),
		mcp.Enum("pantyliner", "small", "medium", "large")),
	mcp.WithString("condition",
		mcp.Description("pad-use (default dry)"),
		mcp.Enum("dry", "damp", "wet", "very-wet")),
)

var listToolDef = mcp.NewTool("record_list",
	mcp.WithDescription("List records newest first with pagination."),
	mcp.WithString("date", mcp.Description("Only records on this DD/MM/YYYY day")),
	mcp.WithString("range", mcp.Description("week, month, all (default), or day"), mcp.Enum("week", "month", "all", "day")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 50, max 500)")),
	mcp.WithNumber("offset", mcp.Description("Records to skip")),
)

var deleteToolDef = mcp.NewTool("record_delete",
	mcp.WithDescription("Permanently delete a record by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
)

var summaryToolDef = mcp.NewTool("record_summary",
	mcp.WithDescription("Totals for one day: fluid intake, urinations, leakages, urgencies, pad changes and ml per urination."),
	mcp.WithString("date", mcp.Description("DD/MM/YYYY (default today)")),
)

var exportToolDef = mcp.NewTool("record_export",
	mcp.WithDescription("Write the selected records to a UTF-8 CSV file for the therapist."),
	mcp.WithString("path", mcp.Description("Destination .csv (default <base>/exports/registros-terapia-<timestamp>.csv)")),
	mcp.WithString("range", mcp.Description(rangeDescription), mcp.Enum("week", "month", "all", "day")),
	mcp.WithString("day", mcp.Description("DD/MM/YYYY for range=day (default today)")),
)

var importToolDef = mcp.NewTool("record_import",
	mcp.WithDescription("Import records from a CSV export. Malformed rows are skipped and reported."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .csv file")),
	mcp.WithBoolean("dry_run", mcp.Description("Decode and report without storing")),
)

var shareToolDef = mcp.NewTool("record_share",
	mcp.WithDescription("Render the selected records as text for a messaging app."),
	mcp.WithString("format", mcp.Description("summary (default) or detailed (one day)"), mcp.Enum("summary", "detailed")),
	mcp.WithString("range", mcp.Description(rangeDescription), mcp.Enum("week", "month", "all", "day")),
	mcp.WithString("day", mcp.Description("DD/MM/YYYY for range=day or detailed (default today)")),
)
