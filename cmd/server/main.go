package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	wsbroadcast "lorekeeper/internal/adapter/broadcast/ws"
	httpadapter "lorekeeper/internal/adapter/http"
	metricsinmem "lorekeeper/internal/adapter/metrics/inmemory"
	gormrepo "lorekeeper/internal/adapter/repo/gorm"
	memoryrepo "lorekeeper/internal/adapter/repo/memory"
	staticrules "lorekeeper/internal/adapter/rules/static"
	"lorekeeper/internal/app/action"
	"lorekeeper/internal/app/encounter"
	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/app/replay"
	"lorekeeper/internal/app/rules"
	"lorekeeper/internal/app/status"
	"lorekeeper/internal/domain/combat"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
)

type config struct {
	Addr          string `env:"LOREKEEPER_ADDR" envDefault:":8080"`
	WSAddr        string `env:"LOREKEEPER_WS_ADDR" envDefault:":8081"`
	Backend       string `env:"LOREKEEPER_BACKEND" envDefault:"memory"`
	DBDSN         string `env:"LOREKEEPER_DB_DSN"`
	MigrationsDir string `env:"LOREKEEPER_MIGRATIONS_DIR" envDefault:"./migrations"`
	RulesRoot     string `env:"LOREKEEPER_RULES_ROOT" envDefault:"./rules"`
	DiceSeed      int64  `env:"LOREKEEPER_DICE_SEED"`
	SeedDemo      bool   `env:"LOREKEEPER_SEED_DEMO" envDefault:"true"`
}

type repoSet struct {
	Combats    ports.CombatRepository
	Characters ports.CharacterRepository
	Items      ports.ItemRepository
	Spells     ports.SpellRepository
	Events     ports.EventRepository
	TxManager  ports.TxManager
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	repos := mustBuildRepos(cfg)
	hub := wsbroadcast.NewHub()
	kpiRecorder := metricsinmem.NewRecorder()
	resolver := buildResolver(cfg)

	encounterUC := encounter.UseCase{
		TxManager:  repos.TxManager,
		CombatRepo: repos.Combats,
		Characters: repos.Characters,
		EventRepo:  repos.Events,
		Broadcast:  wsbroadcast.Broadcaster{Hub: hub},
		Now:        time.Now,
	}

	h := httpadapter.Handler{
		EncounterUC: encounterUC,
		ActionUC: action.UseCase{
			TxManager:  repos.TxManager,
			CombatRepo: repos.Combats,
			Characters: repos.Characters,
			Items:      repos.Items,
			Spells:     repos.Spells,
			EventRepo:  repos.Events,
			Broadcast:  wsbroadcast.Broadcaster{Hub: hub},
			Metrics:    kpiRecorder,
			Resolver:   resolver,
			Now:        time.Now,
		},
		StatusUC: status.UseCase{CombatRepo: repos.Combats},
		ReplayUC: replay.UseCase{Events: repos.Events},
		RulesUC:  rules.UseCase{Provider: staticrules.Provider{Root: cfg.RulesRoot}},
		KPI:      kpiRecorder,
	}

	go serveWebSocket(cfg.WSAddr, hub)

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("lorekeeper combat server listening on %s (backend=%s, ws=%s)", cfg.Addr, cfg.Backend, cfg.WSAddr)
	s.Spin()
}

func serveWebSocket(addr string, hub *wsbroadcast.Hub) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsbroadcast.ServeWs(hub))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("websocket listener: %v", err)
	}
}

func buildResolver(cfg config) combat.ResolverService {
	if cfg.DiceSeed != 0 {
		return combat.ResolverService{Roller: combat.NewRoller(combat.NewSeededSource(cfg.DiceSeed))}
	}
	return combat.ResolverService{Roller: combat.NewRoller(nil)}
}

func mustBuildRepos(cfg config) repoSet {
	switch cfg.Backend {
	case "postgres":
		if cfg.DBDSN == "" {
			log.Fatal("LOREKEEPER_DB_DSN is required for the postgres backend")
		}
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if _, statErr := os.Stat(cfg.MigrationsDir); statErr == nil {
			if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
				log.Fatalf("apply migrations: %v", err)
			}
		}
		return repoSet{
			Combats:    gormrepo.NewCombatRepo(db),
			Characters: gormrepo.NewCharacterRepo(db),
			Items:      gormrepo.NewItemRepo(db),
			Spells:     gormrepo.NewSpellRepo(db),
			Events:     gormrepo.NewEventRepo(db),
			TxManager:  gormrepo.NewTxManager(db),
		}
	case "memory":
		store := memoryrepo.NewStore()
		if cfg.SeedDemo {
			seedDemoData(store)
		}
		return repoSet{
			Combats:    memoryrepo.NewCombatRepo(store),
			Characters: memoryrepo.NewCharacterRepo(store),
			Items:      memoryrepo.NewItemRepo(store),
			Spells:     memoryrepo.NewSpellRepo(store),
			Events:     memoryrepo.NewEventRepo(store),
			TxManager:  memoryrepo.NewTxManager(store),
		}
	default:
		log.Fatalf("unknown backend %q (want memory or postgres)", cfg.Backend)
		return repoSet{}
	}
}

// seedDemoData loads a small party so the memory backend is usable out of
// the box.
func seedDemoData(store *memoryrepo.Store) {
	store.SeedCharacter(combat.CharacterSnapshot{
		ID:   "demo-fighter",
		Name: "Brynn",
		AbilityScores: map[combat.AbilityType]int{
			combat.AbilityStrength:     16,
			combat.AbilityDexterity:    12,
			combat.AbilityConstitution: 14,
			combat.AbilityIntelligence: 10,
			combat.AbilityWisdom:       11,
			combat.AbilityCharisma:     9,
		},
		CurrentHitPoints: 24,
		MaxHitPoints:     24,
		ProficiencyBonus: 2,
	})
	store.SeedCharacter(combat.CharacterSnapshot{
		ID:   "demo-wizard",
		Name: "Sael",
		AbilityScores: map[combat.AbilityType]int{
			combat.AbilityStrength:     8,
			combat.AbilityDexterity:    14,
			combat.AbilityConstitution: 12,
			combat.AbilityIntelligence: 17,
			combat.AbilityWisdom:       13,
			combat.AbilityCharisma:     10,
		},
		CurrentHitPoints: 14,
		MaxHitPoints:     14,
		ProficiencyBonus: 2,
	})
	store.SeedCharacter(combat.CharacterSnapshot{
		ID:   "demo-goblin",
		Name: "Goblin",
		AbilityScores: map[combat.AbilityType]int{
			combat.AbilityStrength:     8,
			combat.AbilityDexterity:    14,
			combat.AbilityConstitution: 10,
			combat.AbilityIntelligence: 10,
			combat.AbilityWisdom:       8,
			combat.AbilityCharisma:     8,
		},
		CurrentHitPoints: 7,
		MaxHitPoints:     7,
		ProficiencyBonus: 2,
	})
	store.SeedItem(combat.ItemSnapshot{
		ID:         "demo-longsword",
		Name:       "Longsword",
		Weapon:     true,
		DamageDice: "1d8",
	})
	store.SeedItem(combat.ItemSnapshot{
		ID:         "demo-shortbow",
		Name:       "Shortbow",
		Weapon:     true,
		DamageDice: "1d6",
		Ranged:     true,
	})
	store.SeedItem(combat.ItemSnapshot{
		ID:   "demo-potion",
		Name: "Potion of Healing",
	})
	store.SeedSpell(combat.SpellSnapshot{
		ID:         "demo-firebolt",
		Name:       "Fire Bolt",
		Level:      0,
		School:     "evocation",
		DamageDice: "1d10",
	})
	store.SeedSpell(combat.SpellSnapshot{
		ID:     "demo-mage-armor",
		Name:   "Mage Armor",
		Level:  1,
		School: "abjuration",
	})
}
