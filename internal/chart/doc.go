// Package chart renders the analysis charts as PNG images with gonum/plot.
//
// Three charts are produced, each from one aggregate in model.Results:
//   - gender_distribution.png: bar chart of individual laureates by sex
//   - usa_ratio_by_decade.png: US-born ratio per decade with the maximum marked
//   - female_proportion_heatmap.png: female share by decade and category
//
// A chart whose input is missing is skipped and reported as a
// *query.EmptyResultWarning. Existing files are overwritten.
package chart
