package sqlinline

const QSelectSecret = `--sql 3f1c5a0e-9d2b-4b7a-8b1e-6f4a2d9c0e11
select value_text, value_binary
from secrets
where ref = $1::text
limit 1;
`

const QUpsertSecret = `--sql 7a9e1d3c-2b6f-4c8a-9d0e-5b3f7a1c4e22
insert into secrets (id, ref, value_text, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, now(), now())
on conflict (ref) do update set
    value_text = excluded.value_text,
    updated_at = now();
`
