package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/clrsreport/internal/chapters"
	"git.home.luguber.info/inful/clrsreport/internal/config"
	"git.home.luguber.info/inful/clrsreport/internal/finalize"
	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/gitinfo"
	"git.home.luguber.info/inful/clrsreport/internal/latex"
	"git.home.luguber.info/inful/clrsreport/internal/listing"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
	"git.home.luguber.info/inful/clrsreport/internal/manifest"
	"git.home.luguber.info/inful/clrsreport/internal/metrics"
	"git.home.luguber.info/inful/clrsreport/internal/render"
	"git.home.luguber.info/inful/clrsreport/internal/texbuild"
	"git.home.luguber.info/inful/clrsreport/internal/workspace"
)

// persistentWorkdir is the workspace subdirectory kept with keep_workdir.
const persistentWorkdir = "clrsreport-work"

// Builder compiles a rendered document inside workDir.
type Builder interface {
	Build(ctx context.Context, doc texbuild.Document, workDir string) (string, error)
}

// scratchDir is the build workspace as the stages use it.
type scratchDir interface {
	Create() error
	GetPath() string
	Cleanup() error
}

// Pipeline wires the stages together for one configuration.
type Pipeline struct {
	cfg          *config.Config
	builder      Builder
	recorder     metrics.Recorder
	logger       *slog.Logger
	revision     func(dir string) (gitinfo.Revision, error)
	newWorkspace func() scratchDir
	now          func() time.Time
}

// New returns a Pipeline driving the configured toolchain.
func New(cfg *config.Config) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		builder:  texbuild.NewDriver(texbuild.OptionsFromConfig(cfg)),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		revision: gitinfo.Head,
		now:      time.Now,
	}
	p.newWorkspace = p.workspaceManager
	return p
}

func (p *Pipeline) workspaceManager() scratchDir {
	if p.cfg.Paths.KeepWorkdir {
		return workspace.NewPersistentManager(p.cfg.WorkspaceBase(), persistentWorkdir)
	}
	return workspace.NewManager(p.cfg.WorkspaceBase())
}

// WithBuilder replaces the toolchain driver.
func (p *Pipeline) WithBuilder(b Builder) *Pipeline {
	if b != nil {
		p.builder = b
	}
	return p
}

// WithRecorder attaches a metrics recorder. A texbuild.Driver builder
// receives it as well.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r == nil {
		return p
	}
	p.recorder = r
	if d, ok := p.builder.(*texbuild.Driver); ok {
		d.WithRecorder(r)
	}
	return p
}

// WithLogger replaces the logger.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	if l != nil {
		p.logger = l
		if d, ok := p.builder.(*texbuild.Driver); ok {
			d.WithLogger(l)
		}
	}
	return p
}

// state is what stages hand to each other.
type state struct {
	manifest    *manifest.Manifest
	chapters    latex.Trusted
	exercises   latex.Trusted
	listingPath string
	listing     string
	document    texbuild.Document
	workspace   scratchDir
	pdfPath     string
	result      finalize.Result
}

type stageFn func(ctx context.Context, st *state, rep *Report) error

type stageDef struct {
	name StageName
	fn   stageFn
}

func (p *Pipeline) stages() []stageDef {
	return []stageDef{
		{StageLoadManifest, p.loadManifest},
		{StageAssembleChapters, p.assembleChapters},
		{StageLoadListing, p.loadListing},
		{StageRenderDocument, p.renderDocument},
		{StageBuild, p.build},
		{StageFinalize, p.finalize},
	}
}

// Run executes every stage in order. The report is returned on failure too,
// carrying timings up to the failing stage.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	rep := newReport(uuid.NewString(), p.now())
	log := p.logger.With(logfields.RunID(rep.RunID))
	st := &state{}

	defer func() {
		if st.workspace == nil {
			return
		}
		if err := st.workspace.Cleanup(); err != nil {
			log.Warn("Workspace cleanup failed", logfields.Error(err))
			rep.addWarning(err)
		}
	}()

	err := p.runStages(ctx, st, rep, log)

	rep.End = p.now()
	rep.Outcome = outcome(err)
	p.recorder.ObserveBuildDuration(rep.Duration())
	p.recorder.IncBuildOutcome(rep.Outcome)
	if err != nil {
		return rep, err
	}

	rep.PDFPath = st.result.PDFPath
	rep.TeXPath = st.result.TeXPath
	rep.Pages = st.result.Pages
	log.Info("Report built", logfields.Path(rep.PDFPath), logfields.Count(rep.Pages),
		logfields.DurationMS(float64(rep.Duration().Milliseconds())))
	return rep, nil
}

func (p *Pipeline) runStages(ctx context.Context, st *state, rep *Report, log *slog.Logger) error {
	for _, sd := range p.stages() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err := errors.NewError(errors.CategoryRuntime, "build canceled").
				WithCause(ctxErr).
				WithContext("stage", string(sd.name)).
				Build()
			rep.recordStage(sd.name, 0, metrics.ResultCanceled, p.recorder)
			return err
		}

		warned := len(rep.Warnings)
		t0 := time.Now()
		err := sd.fn(ctx, st, rep)
		dur := time.Since(t0)
		result := stageResult(err)
		if err == nil && len(rep.Warnings) > warned {
			result = metrics.ResultWarning
		}
		rep.recordStage(sd.name, dur, result, p.recorder)
		log.Debug("Stage complete", logfields.Stage(string(sd.name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000), slog.String("result", string(result)))
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) loadManifest(_ context.Context, st *state, _ *Report) error {
	m, err := manifest.Load(p.cfg.ManifestPath())
	if err != nil {
		return err
	}
	st.manifest = m
	p.logger.Info("Manifest loaded", logfields.Path(p.cfg.ManifestPath()), logfields.Count(len(m.Chapters)))
	return nil
}

func (p *Pipeline) assembleChapters(_ context.Context, st *state, rep *Report) error {
	blocks := chapters.NewAssembler(p.cfg.ChaptersDir()).Blocks(st.manifest.Chapters)
	for _, b := range blocks {
		rep.Chapters = append(rep.Chapters, ChapterSummary{ID: b.ID, Strategy: b.Strategy})
		p.recorder.IncChapterStrategy(string(b.Strategy))
	}
	st.chapters = chapters.Join(blocks)
	if p.cfg.Document.IncludeExercises {
		st.exercises = chapters.Exercises(st.manifest.Exercises)
	}
	return nil
}

func (p *Pipeline) loadListing(_ context.Context, st *state, rep *Report) error {
	path, text, err := listing.NewLocator(p.cfg.Document.ListingSuffix).Load(p.cfg.SourceRoot(), p.cfg.Document.ListingID)
	if err != nil {
		return err
	}
	st.listingPath = path
	st.listing = text
	rep.ListingPath = path
	return nil
}

func (p *Pipeline) renderDocument(_ context.Context, st *state, rep *Report) error {
	doc := p.cfg.Document
	meta := render.Meta{
		Title:   doc.Title,
		Author:  doc.Author,
		BibFile: doc.BaseName + ".bib",
	}
	if p.cfg.StampRevision() {
		rev, err := p.revision(p.cfg.SourceRoot())
		if err != nil {
			p.logger.Debug("No revision stamp", logfields.Error(err))
		} else {
			meta.Revision = rev.Short()
			rep.Revision = rev.String()
		}
	}

	tex, err := render.Render(render.Input{
		Meta:           meta,
		Chapters:       st.chapters,
		Listing:        st.listing,
		ListingCaption: doc.ListingCaption,
		Exercises:      st.exercises,
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "failed to render document").
			Fatal().
			WithContext("path", st.listingPath).
			Build()
	}
	st.document = texbuild.Document{
		BaseName: doc.BaseName,
		TeX:      tex,
		Bib:      render.Bibliography(),
	}
	return nil
}

func (p *Pipeline) build(ctx context.Context, st *state, _ *Report) error {
	ws := p.newWorkspace()
	st.workspace = ws
	if err := ws.Create(); err != nil {
		return err
	}

	pdf, err := p.builder.Build(ctx, st.document, ws.GetPath())
	if err != nil {
		return err
	}
	st.pdfPath = pdf
	return nil
}

func (p *Pipeline) finalize(_ context.Context, st *state, rep *Report) error {
	f := finalize.New(p.cfg.Document.BaseName, p.cfg.InvocationRoot()).
		WithReleaser(st.workspace).
		WithLogger(p.logger)
	f.VerifyPDF = p.cfg.VerifyPDF()

	res, err := f.Finalize(st.workspace.GetPath(), p.cfg.OutputDir())
	if err != nil {
		return err
	}
	st.result = res
	st.workspace = nil
	for _, w := range res.Warnings {
		rep.addWarning(w)
	}
	return nil
}
