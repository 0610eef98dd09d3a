//go:build integration

package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/control"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/daemon"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/monitoring"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/usecase"
	"github.com/eliteGoblin/focusd/smartfreeze/test/fixtures"
)

var (
	dota    = domain.ProcessInfo{PID: 100, Name: "dota2.exe", Path: `C:\Program Files (x86)\Steam\steamapps\common\dota 2 beta\game\bin\win64\dota2.exe`, MemoryMB: 3500}
	chrome  = domain.ProcessInfo{PID: 10, Name: "chrome.exe", Path: `C:\Program Files\Google\Chrome\Application\chrome.exe`, MemoryMB: 800}
	teams   = domain.ProcessInfo{PID: 11, Name: "Teams.exe", Path: `C:\Users\me\AppData\Local\Microsoft\Teams\Teams.exe`, MemoryMB: 400}
	indexer = domain.ProcessInfo{PID: 12, Name: "SearchIndexer.exe", Path: `C:\Windows\System32\SearchIndexer.exe`, MemoryMB: 150}
	lsass   = domain.ProcessInfo{PID: 13, Name: "lsass.exe", Path: `C:\Windows\System32\lsass.exe`, MemoryMB: 120}
)

const selfPID = 4242

var _ = Describe("Freeze daemon", func() {
	var (
		tmpDir  string
		port    *fixtures.FakePort
		store   domain.StateStore
		journal *infra.EncryptedJournal
		metrics *monitoring.Metrics
		d       *daemon.Daemon
		ctx     context.Context
		cancel  context.CancelFunc
		runErr  chan error
		server  *httptest.Server
		client  *control.Client
	)

	startDaemon := func(keepCommunication bool) {
		engine := usecase.NewEngine(port, domain.SelectionConfig{
			MinMemoryMB:       100,
			KeepCommunication: keepCommunication,
		}, zap.NewNop())

		d = daemon.New(daemon.Config{
			PollInterval:     20 * time.Millisecond,
			ResumeOnShutdown: true,
		}, engine, store, zap.NewNop(),
			daemon.WithJournal(journal),
			daemon.WithMetrics(metrics))

		ctx, cancel = context.WithCancel(context.Background())
		runErr = make(chan error, 1)
		go func() { runErr <- d.Run(ctx) }()

		server = httptest.NewServer(control.NewServer(d, cancel, metrics, zap.NewNop()).Handler())
		client = control.NewClient(strings.TrimPrefix(server.URL, "http://"))
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "smartfreeze-integration-*")
		Expect(err).NotTo(HaveOccurred())

		port = fixtures.NewFakePort(selfPID)
		for _, p := range []domain.ProcessInfo{chrome, teams, indexer, lsass} {
			port.Add(p)
		}
		store = infra.NewFileStateStoreWithPath(tmpDir + "/state.json")

		journal, err = infra.OpenJournal(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		metrics = monitoring.NewMetrics()
	})

	AfterEach(func() {
		if cancel != nil {
			cancel()
			Eventually(runErr, 5*time.Second).Should(Receive())
		}
		if server != nil {
			server.Close()
		}
		journal.Close()
		os.RemoveAll(tmpDir)
		cancel, server = nil, nil
	})

	Describe("a game session", func() {
		It("freezes background processes while the game runs and resumes them after", func() {
			startDaemon(false)

			port.Add(dota)
			Eventually(port.FrozenPIDs, 2*time.Second, 10*time.Millisecond).
				Should(ConsistOf(chrome.PID, teams.PID, indexer.PID))
			Expect(port.IsFrozen(lsass.PID)).To(BeFalse())
			Expect(port.IsFrozen(dota.PID)).To(BeFalse())

			status, err := client.Status(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(status.State).To(Equal(domain.StateGameActive))
			Expect(status.SessionID).NotTo(BeEmpty())

			saved, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.FrozenProcesses).To(HaveLen(3))

			port.Remove(dota.PID)
			Eventually(port.FrozenPIDs, 2*time.Second, 10*time.Millisecond).Should(BeEmpty())

			Eventually(func() domain.DaemonState {
				s, _ := client.Status(context.Background())
				return s.State
			}, 2*time.Second).Should(Equal(domain.StateIdle))

			saved, err = store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.IsEmpty()).To(BeTrue())

			events, err := journal.Recent(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(6))
			Expect(events[0].Action).To(Equal(domain.ActionResume))
			Expect(events[5].Action).To(Equal(domain.ActionFreeze))
			Expect(events[0].SessionID).To(Equal(events[5].SessionID))
		})

		It("keeps communication apps running when asked", func() {
			startDaemon(true)

			port.Add(dota)
			Eventually(port.FrozenPIDs, 2*time.Second, 10*time.Millisecond).
				Should(ConsistOf(chrome.PID, indexer.PID))
			Expect(port.IsFrozen(teams.PID)).To(BeFalse())
		})
	})

	Describe("control API", func() {
		It("stops freezing once monitoring is disabled, without resuming", func() {
			startDaemon(false)

			port.Add(dota)
			Eventually(port.FrozenPIDs, 2*time.Second, 10*time.Millisecond).ShouldNot(BeEmpty())

			enabled, err := client.ToggleEnabled(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled).To(BeFalse())

			port.Remove(dota.PID)
			Consistently(port.FrozenPIDs, 200*time.Millisecond, 20*time.Millisecond).ShouldNot(BeEmpty())
		})

		It("resumes everything on quit", func() {
			startDaemon(false)

			port.Add(dota)
			Eventually(port.FrozenPIDs, 2*time.Second, 10*time.Millisecond).ShouldNot(BeEmpty())

			Expect(client.Quit(context.Background())).To(Succeed())
			Eventually(runErr, 2*time.Second).Should(Receive(MatchError(context.Canceled)))
			Expect(port.FrozenPIDs()).To(BeEmpty())

			saved, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.IsEmpty()).To(BeTrue())
			cancel = nil
		})
	})

	Describe("crash recovery", func() {
		It("resumes processes a crashed run left frozen and deletes the state file", func() {
			_, err := port.Freeze(chrome.PID)
			Expect(err).NotTo(HaveOccurred())
			_, err = port.Freeze(teams.PID)
			Expect(err).NotTo(HaveOccurred())

			state := domain.NewPersistedState()
			state.Add(domain.NewFrozenProcess(chrome.PID, chrome.Name, chrome.Path, time.Now().Add(-5*time.Minute)))
			state.Add(domain.NewFrozenProcess(teams.PID, teams.Name, teams.Path, time.Now().Add(-3*time.Hour)))
			Expect(store.Save(state)).To(Succeed())

			startDaemon(false)

			Eventually(func() bool { return port.IsFrozen(chrome.PID) }, 2*time.Second).Should(BeFalse())
			Expect(port.IsFrozen(teams.PID)).To(BeTrue(), "stale records are not resumed")
			Eventually(func() bool {
				_, err := os.Stat(store.Path())
				return os.IsNotExist(err)
			}, 2*time.Second).Should(BeTrue())
		})
	})
})
