// Package extraction orchestrates the scan pipeline: discover files,
// run the framework extractors, and normalize everything into a single
// inventory. Both the CLI and the MCP server drive scans through the
// Service so flags and tool arguments share one code path.
package extraction

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/siftlabs/sift/internal/cache"
	"github.com/siftlabs/sift/internal/fileproc"
	"github.com/siftlabs/sift/pkg/astbridge"
	"github.com/siftlabs/sift/pkg/config"
	"github.com/siftlabs/sift/pkg/extractor/cypress"
	"github.com/siftlabs/sift/pkg/extractor/dataprovider"
	"github.com/siftlabs/sift/pkg/extractor/gherkin"
	"github.com/siftlabs/sift/pkg/extractor/java"
	"github.com/siftlabs/sift/pkg/extractor/pageobject"
	"github.com/siftlabs/sift/pkg/extractor/specflow"
	"github.com/siftlabs/sift/pkg/framework"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/normalize"
	"github.com/siftlabs/sift/pkg/scanner"
)

// Service orchestrates extraction operations.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	bridge *astbridge.Provider
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the extraction cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithBridge sets the external AST provider.
func WithBridge(p *astbridge.Provider) Option {
	return func(s *Service) {
		s.bridge = p
	}
}

// New creates a new extraction service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bridge == nil && s.config.Bridge.Command != "" {
		if p, err := astbridge.New(s.config.Bridge.Command, time.Duration(s.config.Bridge.Timeout)*time.Second); err == nil {
			s.bridge = p
		}
	}
	return s
}

// workers returns the configured extraction worker count. Zero or less
// lets fileproc pick its default.
func (s *Service) workers() int {
	return s.config.Scan.Workers
}

// ScanOptions configures a full scan.
type ScanOptions struct {
	// Framework keeps only cases from the named framework when set.
	Framework  string
	OnProgress func()
}

// javaFileResult bundles everything the three Java-source extractors pull
// from one file, so the file is read and cached once.
type javaFileResult struct {
	Java      *java.FileResult               `json:"java,omitempty"`
	Pages     []models.PageObjectClassRecord `json:"pages,omitempty"`
	Providers []models.DataProviderRecord    `json:"providers,omitempty"`
}

// Scan runs the full pipeline on one root: discover, extract, detect,
// normalize. Per-file failures are collected, never fatal; a file that
// cannot be read or parsed is skipped and the rest of the scan proceeds.
func (s *Service) Scan(ctx context.Context, root string, opts ScanOptions) (*models.Inventory, *fileproc.ProcessingErrors, error) {
	sc := scanner.NewScanner(s.config)
	byKind, err := sc.ScanDir(root)
	if err != nil {
		return nil, nil, err
	}

	inv := &models.Inventory{RootPath: root}
	errs := &fileproc.ProcessingErrors{}
	detector := framework.NewProjectDetector()

	javaFiles, _ := scanner.FilterBySize(byKind[scanner.KindJava], s.config.Scan.MaxFileSize)
	csFiles, _ := scanner.FilterBySize(byKind[scanner.KindCSharp], s.config.Scan.MaxFileSize)
	featureFiles, _ := scanner.FilterBySize(byKind[scanner.KindFeature], s.config.Scan.MaxFileSize)
	cypressFiles, _ := scanner.FilterBySize(byKind[scanner.KindCypress], s.config.Scan.MaxFileSize)

	if s.config.Scan.Java || s.config.Scan.PageObjects || s.config.Scan.Providers {
		results, jerrs := fileproc.ForEachFileWithContextN(ctx, javaFiles, s.workers(), s.extractJavaFile, opts.OnProgress)
		mergeErrors(errs, jerrs)
		for _, r := range results {
			if r.Java != nil {
				detector.Observe(r.Java.Imports)
				if s.config.Scan.Java {
					for _, class := range r.Java.Classes {
						inv.Cases = append(inv.Cases, normalize.Class(class)...)
					}
				}
			}
			if s.config.Scan.PageObjects {
				inv.PageObjects = append(inv.PageObjects, r.Pages...)
			}
			if s.config.Scan.Providers {
				inv.DataProviders = append(inv.DataProviders, r.Providers...)
			}
		}
		inv.PageObjects = pageObjectsOnly(inv.PageObjects)
		pageobject.Resolve(inv.PageObjects)
	}

	if s.config.Scan.SpecFlow {
		ext := specflow.New()
		results, serrs := fileproc.ForEachFileWithContextN(ctx, csFiles, s.workers(), ext.ExtractFile, opts.OnProgress)
		mergeErrors(errs, serrs)
		for _, r := range results {
			for _, class := range r.Classes {
				inv.Cases = append(inv.Cases, normalize.Class(class)...)
			}
		}
	}

	if s.config.Scan.Gherkin {
		ext := gherkin.New()
		results, gerrs := fileproc.ForEachFileWithContextN(ctx, featureFiles, s.workers(), ext.ExtractFile, opts.OnProgress)
		mergeErrors(errs, gerrs)
		for _, r := range results {
			if r == nil {
				continue
			}
			inv.Cases = append(inv.Cases, scenarioCases(r)...)
			inv.Outlines = append(inv.Outlines, r.Outlines...)
		}
	}

	if s.config.Scan.Cypress {
		ext := cypress.New()
		results, cerrs := fileproc.ForEachFileWithContextN(ctx, cypressFiles, s.workers(), ext.ExtractFile, opts.OnProgress)
		mergeErrors(errs, cerrs)
		for _, r := range results {
			inv.Cases = append(inv.Cases, r.NeutralCases()...)
		}
	}

	inv.Primary = detector.Primary()
	if inv.Primary == models.FrameworkUnknown {
		inv.Primary = dominantFramework(inv.Cases)
	}

	if opts.Framework != "" {
		filtered := inv.Cases[:0]
		for _, c := range inv.Cases {
			if c.Framework == opts.Framework {
				filtered = append(filtered, c)
			}
		}
		inv.Cases = filtered
	}

	return inv, errs, nil
}

// extractJavaFile reads one Java source and runs every extractor that
// wants Java input. Cached results are keyed by file content hash, so an
// unchanged file costs one hash instead of three extractions.
func (s *Service) extractJavaFile(path string) (javaFileResult, error) {
	if data, ok := s.cache.LookupFile("java", path); ok {
		var cached javaFileResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var result javaFileResult
	if s.bridge.Enabled() {
		if bridged, err := s.bridge.Extract(context.Background(), path); err == nil {
			record := bridged.ToRecord(path, deriveMethod)
			result.Java = &java.FileResult{
				Package:  record.Package,
				Imports:  record.Imports,
				Classes:  []models.TestClassRecord{record},
				FilePath: path,
			}
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return javaFileResult{}, err
	}
	text := string(src)

	if result.Java == nil && s.config.Scan.Java {
		result.Java = java.New().Extract(text, path)
	}
	if s.config.Scan.PageObjects {
		result.Pages = pageobject.New().Extract(text, path)
	}
	if s.config.Scan.Providers {
		result.Providers = dataprovider.New().Extract(text, path)
	}

	if data, err := json.Marshal(result); err == nil {
		s.cache.StoreFile("java", path, data)
	}
	return result, nil
}

// deriveMethod computes the derived method fields from bridge output the
// same way the text extractors compute them.
func deriveMethod(fw models.Framework, anns []models.SourceAnnotation) models.TestMethodRecord {
	return models.TestMethodRecord{
		Annotations:     anns,
		Tags:            normalize.Tags(anns),
		IsParameterized: normalize.IsParameterized(fw, anns),
		IsDisabled:      normalize.IsDisabled(fw, anns),
	}
}

// scenarioCases converts plain Gherkin scenarios to neutral cases. The
// feature plays the class role; outlines are reported separately and are
// not flattened here.
func scenarioCases(r *gherkin.FileResult) []models.NeutralTestCase {
	cases := make([]models.NeutralTestCase, 0, len(r.Scenarios))
	for _, sc := range r.Scenarios {
		tags := models.DedupeTags(append(append([]string{}, r.FeatureTags...), sc.Tags...))
		cases = append(cases, models.NeutralTestCase{
			Framework:  string(models.FrameworkBehave),
			ClassName:  r.FeatureName,
			MethodName: sc.Name,
			Tags:       tags,
			FilePath:   sc.FilePath,
			LineNumber: sc.LineStart,
			IsDisabled: hasTag(tags, "skip") || hasTag(tags, "wip"),
		})
	}
	return cases
}

func hasTag(tags []string, name string) bool {
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}

// pageObjectsOnly drops plain Java classes the page-object extractor
// swept up. A class qualifies with a located element, PageFactory, or
// LoadableComponent; ancestors of a qualifying class stay because the
// hierarchy report needs them even when they declare no elements.
func pageObjectsOnly(records []models.PageObjectClassRecord) []models.PageObjectClassRecord {
	keep := make(map[string]bool)
	parentOf := make(map[string]string, len(records))
	for _, r := range records {
		parentOf[r.ClassName] = r.ParentClassName
		if len(r.Elements) > 0 || r.UsesFactoryPattern || r.IsLoadableComponent {
			keep[r.ClassName] = true
		}
	}

	for name := range keep {
		visited := map[string]bool{name: true}
		for p := parentOf[name]; p != "" && !visited[p]; p = parentOf[p] {
			if _, known := parentOf[p]; !known {
				break
			}
			visited[p] = true
			keep[p] = true
		}
	}

	var out []models.PageObjectClassRecord
	for _, r := range records {
		if keep[r.ClassName] {
			out = append(out, r)
		}
	}
	return out
}

// dominantFramework picks the framework contributing the most cases,
// used when no Java framework import was observed anywhere.
func dominantFramework(cases []models.NeutralTestCase) models.Framework {
	counts := make(map[string]int)
	best := models.FrameworkUnknown
	bestN := 0
	for _, c := range cases {
		counts[c.Framework]++
		if counts[c.Framework] > bestN {
			best = models.Framework(c.Framework)
			bestN = counts[c.Framework]
		}
	}
	return best
}

func mergeErrors(dst, src *fileproc.ProcessingErrors) {
	if src == nil {
		return
	}
	for _, e := range src.Errors {
		dst.Add(e.Path, e.Err)
	}
}

// OutlineOptions configures the outline report.
type OutlineOptions struct {
	Expand     bool
	OnProgress func()
}

// OutlineReport is one feature file's outline inventory.
type OutlineReport struct {
	FilePath string                         `json:"file_path"`
	Feature  string                         `json:"feature,omitempty"`
	Outlines []models.ScenarioOutlineRecord `json:"outlines,omitempty"`
	Expanded []models.ExpandedCase          `json:"expanded,omitempty"`
}

// Outlines extracts scenario outlines from every feature file under root.
func (s *Service) Outlines(ctx context.Context, root string, opts OutlineOptions) ([]OutlineReport, *fileproc.ProcessingErrors, error) {
	sc := scanner.NewScanner(s.config)
	byKind, err := sc.ScanDir(root)
	if err != nil {
		return nil, nil, err
	}

	ext := gherkin.New()
	results, errs := fileproc.ForEachFileWithContextN(ctx, byKind[scanner.KindFeature], s.workers(), ext.ExtractFile, opts.OnProgress)

	var reports []OutlineReport
	for _, r := range results {
		if r == nil || len(r.Outlines) == 0 {
			continue
		}
		report := OutlineReport{
			FilePath: r.FilePath,
			Feature:  r.FeatureName,
			Outlines: r.Outlines,
		}
		if opts.Expand {
			for _, o := range r.Outlines {
				report.Expanded = append(report.Expanded, gherkin.Expand(o)...)
			}
		}
		reports = append(reports, report)
	}
	return reports, errs, nil
}

// ProviderOptions configures the data-provider inventory.
type ProviderOptions struct {
	// Source keeps only providers classified to the named data source.
	Source     string
	OnProgress func()
}

// Providers extracts TestNG data providers from every Java file under root.
func (s *Service) Providers(ctx context.Context, root string, opts ProviderOptions) ([]models.DataProviderRecord, *fileproc.ProcessingErrors, error) {
	sc := scanner.NewScanner(s.config)
	byKind, err := sc.ScanDir(root)
	if err != nil {
		return nil, nil, err
	}

	ext := dataprovider.New()
	results, errs := fileproc.ForEachFileWithContextN(ctx, byKind[scanner.KindJava], s.workers(), ext.ExtractFile, opts.OnProgress)

	var records []models.DataProviderRecord
	for _, fileRecords := range results {
		for _, r := range fileRecords {
			if opts.Source != "" && string(r.DataSource) != opts.Source {
				continue
			}
			records = append(records, r)
		}
	}
	return records, errs, nil
}

// PageObjectOptions configures the page-object inventory.
type PageObjectOptions struct {
	OnProgress func()
}

// PageObjectReport is the resolved page-object inventory plus the
// parent-to-children tree.
type PageObjectReport struct {
	Classes []models.PageObjectClassRecord `json:"classes,omitempty"`
	Tree    map[string][]string            `json:"tree,omitempty"`
}

// PageObjects extracts Selenium page objects from every Java file under
// root and resolves inheritance depth across the whole set.
func (s *Service) PageObjects(ctx context.Context, root string, opts PageObjectOptions) (*PageObjectReport, *fileproc.ProcessingErrors, error) {
	sc := scanner.NewScanner(s.config)
	byKind, err := sc.ScanDir(root)
	if err != nil {
		return nil, nil, err
	}

	ext := pageobject.New()
	results, errs := fileproc.ForEachFileWithContextN(ctx, byKind[scanner.KindJava], s.workers(), ext.ExtractFile, opts.OnProgress)

	var classes []models.PageObjectClassRecord
	for _, fileClasses := range results {
		classes = append(classes, fileClasses...)
	}
	classes = pageObjectsOnly(classes)
	pageobject.Resolve(classes)

	return &PageObjectReport{
		Classes: classes,
		Tree:    pageobject.Tree(classes),
	}, errs, nil
}

// FrameworkReport is the per-file and project-level detection result.
type FrameworkReport struct {
	Primary  models.Framework            `json:"primary"`
	Detected []models.Framework          `json:"detected,omitempty"`
	PerFile  map[string]models.Framework `json:"per_file,omitempty"`
}

// Frameworks runs import-based detection over every Java file under root.
// The walk short-circuits once every detectable framework has been seen.
func (s *Service) Frameworks(ctx context.Context, root string) (*FrameworkReport, *fileproc.ProcessingErrors, error) {
	sc := scanner.NewScanner(s.config)
	byKind, err := sc.ScanDir(root)
	if err != nil {
		return nil, nil, err
	}

	detector := framework.NewProjectDetector()
	report := &FrameworkReport{PerFile: make(map[string]models.Framework)}
	errs := &fileproc.ProcessingErrors{}

	ext := java.New()
	for _, path := range byKind[scanner.KindJava] {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		r, err := ext.ExtractFile(path)
		if err != nil {
			errs.Add(path, err)
			continue
		}
		report.PerFile[path] = framework.DetectFile(r.Imports)
		if detector.Observe(r.Imports) {
			break
		}
	}

	report.Primary = detector.Primary()
	report.Detected = detector.Detected()
	return report, errs, nil
}
