// Package narrative renders analysis results as readable text.
//
// A Narrator produces two things per sheet: a multi-line summary report and a
// set of insights grouped into priority actions, positive highlights, areas of
// concern and recommendations. Insight rules are fixed thresholds over the
// computed metrics; wording can vary through a Selector, which by default
// always picks the first phrasing.
package narrative
